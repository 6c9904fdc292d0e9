package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/adapter/queue"
	"github.com/seu-repo/vending-fleet/internal/domain"
)

// WatcherConfig holds the watcher configuration
type WatcherConfig struct {
	ServerURL string
	// Types limits logging to these envelope types; empty logs all.
	Types map[string]bool
}

// Tally counts what the watcher has seen.
type Tally struct {
	Transactions int
	Declined     int
	Revenue      int
	Events       map[domain.EventType]int
	Updates      int
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Watcher tails the live feed or the queue mirror and logs what it sees.
type Watcher struct {
	config *WatcherConfig
	conn   *websocket.Conn
	mq     queue.MessageQueue
	log    *zap.Logger

	mu    sync.Mutex
	tally Tally

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewWatcher(config *WatcherConfig, log *zap.Logger) *Watcher {
	return &Watcher{
		config:   config,
		log:      log,
		tally:    Tally{Events: make(map[domain.EventType]int)},
		stopChan: make(chan struct{}),
	}
}

// Connect dials the live feed websocket and starts reading.
func (w *Watcher) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(w.config.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	w.conn = conn
	w.log.Info("Connected to live feed", zap.String("url", w.config.ServerURL))

	w.wg.Add(1)
	go w.readMessages()
	return nil
}

// SubscribeQueue consumes the outbound mirror instead of the websocket.
func (w *Watcher) SubscribeQueue(mq queue.MessageQueue, prefix string) error {
	w.mq = mq
	if err := mq.Subscribe(prefix+".transactions", func(data []byte) error {
		return w.handleMessage(envelope{Type: "transaction", Data: data})
	}); err != nil {
		return fmt.Errorf("subscribe transactions: %w", err)
	}
	if err := mq.Subscribe(prefix+".events", func(data []byte) error {
		return w.handleMessage(envelope{Type: "event", Data: data})
	}); err != nil {
		return fmt.Errorf("subscribe events: %w", err)
	}
	w.log.Info("Subscribed to queue mirror", zap.String("prefix", prefix))
	return nil
}

// Done is closed once the watcher stops or the feed goes away.
func (w *Watcher) Done() <-chan struct{} {
	return w.stopChan
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	if w.conn != nil {
		w.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		w.conn.Close()
	}
	if w.mq != nil {
		w.mq.Close()
	}
	w.wg.Wait()
}

// Tally returns a copy of the running counts.
func (w *Watcher) Tally() Tally {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.tally
	t.Events = make(map[domain.EventType]int, len(w.tally.Events))
	for k, v := range w.tally.Events {
		t.Events[k] = v
	}
	return t
}

func (w *Watcher) readMessages() {
	defer w.wg.Done()
	defer w.stopOnce.Do(func() { close(w.stopChan) })

	for {
		_, message, err := w.conn.ReadMessage()
		if err != nil {
			select {
			case <-w.stopChan:
			default:
				w.log.Error("Read error", zap.Error(err))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(message, &env); err != nil {
			w.log.Error("Invalid message", zap.Error(err))
			continue
		}
		if err := w.handleMessage(env); err != nil {
			w.log.Error("Invalid payload", zap.String("type", env.Type), zap.Error(err))
		}
	}
}

func (w *Watcher) handleMessage(env envelope) error {
	show := len(w.config.Types) == 0 || w.config.Types[env.Type]

	switch env.Type {
	case "transaction":
		var tx domain.Transaction
		if err := json.Unmarshal(env.Data, &tx); err != nil {
			return err
		}
		w.mu.Lock()
		w.tally.Transactions++
		if tx.Success {
			w.tally.Revenue += tx.Amount
		} else {
			w.tally.Declined++
		}
		w.mu.Unlock()
		if show {
			w.log.Info("Transaction",
				zap.String("id", tx.ID),
				zap.String("machine", tx.MachineName),
				zap.String("product", tx.ProductName),
				zap.Int("amount", tx.Amount),
				zap.Bool("success", tx.Success),
			)
		}

	case "event":
		var ev domain.SystemEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return err
		}
		w.mu.Lock()
		w.tally.Events[ev.Type]++
		w.mu.Unlock()
		if show {
			logFn := w.log.Info
			switch ev.Type {
			case domain.EventTypeError:
				logFn = w.log.Error
			case domain.EventTypeWarning:
				logFn = w.log.Warn
			}
			logFn(ev.Message,
				zap.String("id", ev.ID),
				zap.String("machine", ev.MachineName),
				zap.String("code", ev.Code),
				zap.String("category", string(ev.Category)),
			)
		}

	case "update":
		w.mu.Lock()
		w.tally.Updates++
		w.mu.Unlock()
		if show {
			w.log.Debug("Update", zap.ByteString("data", env.Data))
		}

	default:
		w.log.Warn("Unknown envelope type", zap.String("type", env.Type))
	}
	return nil
}
