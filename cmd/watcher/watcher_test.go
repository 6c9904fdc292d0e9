package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/mocks"
)

func frame(t *testing.T, kind string, data any) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(envelope{Type: kind, Data: payload})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestWatcher_TailsLiveFeed(t *testing.T) {
	// Arrange
	upgrader := websocket.Upgrader{}
	frames := [][]byte{
		frame(t, "transaction", domain.Transaction{ID: "TX-000001", Amount: 150, Success: true}),
		frame(t, "transaction", domain.Transaction{ID: "TX-000002", Amount: 200, Success: false}),
		frame(t, "event", domain.SystemEvent{ID: "EV-000001", Type: domain.EventTypeError}),
		frame(t, "update", map[string]string{"kind": "transaction"}),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			conn.WriteMessage(websocket.TextMessage, f)
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	w := NewWatcher(&WatcherConfig{ServerURL: "ws" + strings.TrimPrefix(server.URL, "http")}, zap.NewNop())

	// Act
	if err := w.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not notice the feed closing")
	}
	w.Stop()

	// Assert
	tally := w.Tally()
	if tally.Transactions != 2 || tally.Declined != 1 || tally.Revenue != 150 {
		t.Errorf("unexpected transaction tally %+v", tally)
	}
	if tally.Events[domain.EventTypeError] != 1 || tally.Updates != 1 {
		t.Errorf("unexpected event/update tally %+v", tally)
	}
}

func TestWatcher_SubscribeQueue(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	w := NewWatcher(&WatcherConfig{}, zap.NewNop())

	// Act
	if err := w.SubscribeQueue(mq, "vending"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	tx, _ := json.Marshal(domain.Transaction{ID: "TX-000001", Amount: 125, Success: true})
	for _, handler := range mq.Subscribers["vending.transactions"] {
		if err := handler(tx); err != nil {
			t.Fatalf("handler: %v", err)
		}
	}
	for _, handler := range mq.Subscribers["vending.events"] {
		if err := handler([]byte("not json")); err == nil {
			t.Error("expected an error for a malformed event")
		}
	}
	w.Stop()

	// Assert
	if got := w.Tally(); got.Transactions != 1 || got.Revenue != 125 {
		t.Errorf("unexpected tally %+v", got)
	}
	if !mq.Closed {
		t.Error("expected Stop to close the queue")
	}
}

func TestParseTypes(t *testing.T) {
	if parseTypes("") != nil {
		t.Error("expected nil for empty input")
	}
	got := parseTypes("transaction, event,,")
	if len(got) != 2 || !got["transaction"] || !got["event"] {
		t.Errorf("unexpected set %v", got)
	}
}
