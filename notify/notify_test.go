package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cellsheet/notify"
	"github.com/mpetrenko/cellsheet/position"
)

func TestSubscribeReceivesNotification(t *testing.T) {
	n := notify.New(2, 4)
	defer n.Close()

	var mu sync.Mutex
	var got []position.Position
	var wg sync.WaitGroup
	wg.Add(1)

	n.Subscribe(func(p position.Position) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
		wg.Done()
	})

	n.Enqueue(position.New(0, 0))

	waitOrTimeout(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []position.Position{position.New(0, 0)}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := notify.New(1, 4)
	defer n.Close()

	var calls int
	var mu sync.Mutex

	unsubscribe := n.Subscribe(func(position.Position) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	unsubscribe()

	n.Enqueue(position.New(0, 0))
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestEnqueueDoesNotBlockWhenQueueFull(t *testing.T) {
	n := notify.New(0, 1) // workers clamped to 1; the enqueuing loop can outrun it and fill the one-slot queue
	defer n.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			n.Enqueue(position.New(i, 0))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked under backpressure")
	}
}

func waitOrTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "timed out waiting for notification")
	}
}
