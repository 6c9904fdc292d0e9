package queue

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/mocks"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
)

func TestForwarder_MirrorsTransactionsAndEvents(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	bus := notify.NewBus()
	f := NewForwarder(mq, ForwarderOptions{SubjectPrefix: "fleet", Buffer: 8}, zap.NewNop())
	f.Attach(bus)

	// Act
	bus.PublishTransaction(domain.Transaction{ID: "TX-000001", MachineID: "VM-001", Amount: 150, Success: true})
	bus.PublishSystemEvent(domain.SystemEvent{ID: "EV-000001", Code: domain.CodeSignalOK})
	bus.PublishUpdate(notify.Update{Kind: notify.UpdateTransaction})
	if err := f.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	// Assert
	txTopic, evTopic := f.Subjects()
	if txTopic != "fleet.transactions" || evTopic != "fleet.events" {
		t.Fatalf("unexpected subjects %s / %s", txTopic, evTopic)
	}

	txs := mq.GetPublishedMessages(txTopic)
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction message, got %d", len(txs))
	}
	var tx domain.Transaction
	if err := json.Unmarshal(txs[0], &tx); err != nil {
		t.Fatalf("transaction payload is not JSON: %v", err)
	}
	if tx.ID != "TX-000001" || tx.Amount != 150 {
		t.Errorf("unexpected transaction payload %+v", tx)
	}

	if evs := mq.GetPublishedMessages(evTopic); len(evs) != 1 {
		t.Errorf("expected 1 event message, got %d", len(evs))
	}
	if !mq.Closed {
		t.Error("expected the queue to be closed")
	}
}

func TestForwarder_DropsWhenBufferFull(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	var published atomic.Int64
	mq := mocks.NewMockMessageQueue()
	mq.PublishFunc = func(string, []byte) error {
		<-release
		published.Add(1)
		return nil
	}
	bus := notify.NewBus()
	f := NewForwarder(mq, ForwarderOptions{Buffer: 1}, zap.NewNop())
	f.Attach(bus)

	// Act
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.PublishTransaction(domain.Transaction{ID: "TX"})
		}
		close(done)
	}()

	// Assert: the publisher never blocks on a stuck broker.
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a full buffer")
	}
	close(release)
	f.Close()

	if n := published.Load(); n < 1 || n > 2 {
		t.Errorf("expected at most buffer+in-flight messages published, got %d", n)
	}
}

func TestForwarder_BreakerStopsHammeringBroker(t *testing.T) {
	// Arrange
	var calls atomic.Int64
	mq := mocks.NewMockMessageQueue()
	mq.PublishFunc = func(string, []byte) error {
		calls.Add(1)
		return errors.New("broker unavailable")
	}
	bus := notify.NewBus()
	f := NewForwarder(mq, ForwarderOptions{
		Buffer: 32,
		Breaker: BreakerOptions{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 0.6,
			MinRequests:      3,
		},
	}, zap.NewNop())
	f.Attach(bus)

	// Act
	for i := 0; i < 10; i++ {
		bus.PublishSystemEvent(domain.SystemEvent{ID: "EV"})
	}
	f.Close()

	// Assert
	if n := calls.Load(); n != 3 {
		t.Errorf("expected the breaker to open after 3 failures, broker saw %d calls", n)
	}
	if st := f.BreakerState(); st != gobreaker.StateOpen {
		t.Errorf("expected an open breaker, got %s", st)
	}
}

func TestForwarder_CloseDetaches(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	bus := notify.NewBus()
	f := NewForwarder(mq, ForwarderOptions{}, zap.NewNop())
	f.Attach(bus)

	f.Close()
	f.Close()
	bus.PublishTransaction(domain.Transaction{ID: "TX-late"})

	if txs, evs, _ := bus.Subscribers(); txs != 0 || evs != 0 {
		t.Errorf("expected no subscribers after Close, got %d/%d", txs, evs)
	}
	if got := mq.GetPublishedMessages("vending.transactions"); len(got) != 0 {
		t.Errorf("expected nothing published after Close, got %d", len(got))
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("kafka", "kafka://localhost", Options{}, zap.NewNop()); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
