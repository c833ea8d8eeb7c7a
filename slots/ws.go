package slots

import (
	"encoding/json"
	"net/http"
	"sync"

	"parkhub/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

var (
	subscribers []*websocket.Conn
	mu          sync.Mutex
)

// HandleWS handles GET /ws/slots. Subscribers receive every slot event
// until they disconnect.
func HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers = append(subscribers, conn)
	mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Clean up on disconnect
	mu.Lock()
	newList := make([]*websocket.Conn, 0, len(subscribers))
	for _, c := range subscribers {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers = newList
	mu.Unlock()

	conn.Close()
}

// Broadcast pushes one event to every subscriber, dropping connections
// that fail to write.
func Broadcast(event models.SlotEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	newList := subscribers[:0]
	for _, conn := range subscribers {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers = newList
}

// subscriberCount is used by tests.
func subscriberCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(subscribers)
}
