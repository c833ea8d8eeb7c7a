package slots

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parkhub/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

func dialTestServer(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	router := httprouter.New()
	router.GET("/ws/slots", HandleWS)
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/slots"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return srv, conn
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	srv, conn := dialTestServer(t)
	defer srv.Close()
	defer conn.Close()

	// wait for the server side to register the connection
	deadline := time.Now().Add(time.Second)
	for subscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	event := models.SlotEvent{
		ID: "abc123", SlotID: "A-1",
		Status: models.StatusOccupied, Action: ActionCheckIn, Ts: 1700000000000,
	}
	Broadcast(event)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got models.SlotEvent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SlotID != "A-1" || got.Action != ActionCheckIn || got.Status != models.StatusOccupied {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	srv, conn := dialTestServer(t)
	defer srv.Close()

	deadline := time.Now().Add(time.Second)
	for subscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	before := subscriberCount()

	conn.Close()
	// two broadcasts: the first write may still land in the OS buffer
	deadline = time.Now().Add(2 * time.Second)
	for subscriberCount() >= before {
		if time.Now().After(deadline) {
			t.Fatalf("dead connection never dropped, count=%d", subscriberCount())
		}
		Broadcast(models.SlotEvent{SlotID: "A-1", Action: ActionUpdate})
		time.Sleep(20 * time.Millisecond)
	}
}
