package slots

import (
	"sync"
	"testing"
)

func TestLockForSameID(t *testing.T) {
	if lockFor("slot-1") != lockFor("slot-1") {
		t.Fatal("same id must return the same mutex")
	}
}

func TestLockForDifferentIDs(t *testing.T) {
	if lockFor("slot-a") == lockFor("slot-b") {
		t.Fatal("different ids must not share a mutex")
	}
}

func TestLockForSerializesCounter(t *testing.T) {
	lock := lockFor("slot-counter")

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock.Lock()
			counter++
			lock.Unlock()
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Fatalf("expected 100, got %d", counter)
	}
}
