package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
)

type fakeConn struct {
	frames    chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 64), closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("connection closed")
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType == websocket.TextMessage {
		c.frames <- data
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func nextFrame(t *testing.T, c *fakeConn) Envelope {
	t.Helper()
	select {
	case frame := <-c.frames:
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("frame is not an envelope: %v", err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatal("no frame within 1s")
	}
	return Envelope{}
}

func startHub(t *testing.T) (*Hub, *notify.Bus, context.CancelFunc) {
	t.Helper()
	hub := NewHub(8, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	bus := notify.NewBus()
	hub.Attach(bus)
	t.Cleanup(cancel)
	return hub, bus, cancel
}

func TestHub_BroadcastsEnvelopes(t *testing.T) {
	// Arrange
	hub, bus, _ := startHub(t)
	conn := newFakeConn()
	go hub.Serve(conn)
	waitFor(t, func() bool { return hub.Clients() == 1 })

	// Act
	bus.PublishTransaction(domain.Transaction{ID: "TX-000001", Amount: 175})
	bus.PublishSystemEvent(domain.SystemEvent{ID: "EV-000001"})
	bus.PublishUpdate(notify.Update{Kind: notify.UpdateTransaction, MachineID: "VM-001"})

	// Assert
	env := nextFrame(t, conn)
	if env.Type != TypeTransaction {
		t.Fatalf("expected transaction frame, got %s", env.Type)
	}
	var tx domain.Transaction
	if err := json.Unmarshal(env.Data, &tx); err != nil || tx.ID != "TX-000001" || tx.Amount != 175 {
		t.Errorf("unexpected transaction payload %s (%v)", env.Data, err)
	}
	if env := nextFrame(t, conn); env.Type != TypeEvent {
		t.Errorf("expected event frame, got %s", env.Type)
	}
	if env := nextFrame(t, conn); env.Type != TypeUpdate {
		t.Errorf("expected update frame, got %s", env.Type)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, _, _ := startHub(t)
	conn := newFakeConn()
	served := make(chan struct{})
	go func() {
		hub.Serve(conn)
		close(served)
	}()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	conn.Close()

	waitFor(t, func() bool { return hub.Clients() == 0 })
	select {
	case <-served:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after the client went away")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, _, cancel := startHub(t)
	conn := newFakeConn()
	go hub.Serve(conn)
	waitFor(t, func() bool { return hub.Clients() == 1 })

	cancel()

	select {
	case <-conn.closed:
	case <-time.After(time.Second):
		t.Fatal("expected the connection to be closed on shutdown")
	}
}

func TestHub_Detach(t *testing.T) {
	hub, bus, _ := startHub(t)

	hub.Detach()

	if txs, evs, updates := bus.Subscribers(); txs+evs+updates != 0 {
		t.Errorf("expected no subscribers after Detach, got %d/%d/%d", txs, evs, updates)
	}
}
