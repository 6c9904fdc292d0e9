package queue

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/domain"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
	"github.com/seu-repo/vending-fleet/internal/service/notify"
)

// Feed is the subscription surface the forwarder mirrors.
type Feed interface {
	OnTransaction(fn func(domain.Transaction)) notify.Unsubscribe
	OnSystemEvent(fn func(domain.SystemEvent)) notify.Unsubscribe
}

type ForwarderOptions struct {
	SubjectPrefix string
	Buffer        int
	Breaker       BreakerOptions
}

type BreakerOptions struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

type message struct {
	subject string
	data    []byte
}

// Forwarder mirrors transactions and system events onto a message queue.
// Subscribers never block: messages go onto a bounded buffer and are dropped
// when it is full. A single worker publishes through a circuit breaker.
type Forwarder struct {
	mq      MessageQueue
	cb      *gobreaker.CircuitBreaker
	txTopic string
	evTopic string
	buf     chan message
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	unsubs []notify.Unsubscribe
	wg     sync.WaitGroup
}

func NewForwarder(mq MessageQueue, opts ForwarderOptions, log *zap.Logger) *Forwarder {
	prefix := opts.SubjectPrefix
	if prefix == "" {
		prefix = "vending"
	}
	size := opts.Buffer
	if size <= 0 {
		size = 256
	}

	f := &Forwarder{
		mq:      mq,
		txTopic: prefix + ".transactions",
		evTopic: prefix + ".events",
		buf:     make(chan message, size),
		log:     log,
	}
	f.cb = newBreaker("queue-mirror", opts.Breaker, log)

	f.wg.Add(1)
	go f.run()
	return f
}

func newBreaker(name string, opts BreakerOptions, log *zap.Logger) *gobreaker.CircuitBreaker {
	threshold := opts.FailureThreshold
	if threshold <= 0 {
		threshold = 0.6
	}
	minRequests := opts.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Attach subscribes the forwarder to feed. Close detaches it.
func (f *Forwarder) Attach(feed Feed) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.unsubs = append(f.unsubs,
		feed.OnTransaction(func(tx domain.Transaction) { f.enqueue(f.txTopic, tx) }),
		feed.OnSystemEvent(func(ev domain.SystemEvent) { f.enqueue(f.evTopic, ev) }),
	)
}

// Subjects returns the transaction and event subjects.
func (f *Forwarder) Subjects() (transactions, events string) {
	return f.txTopic, f.evTopic
}

// BreakerState reports the publish circuit breaker's state.
func (f *Forwarder) BreakerState() gobreaker.State {
	return f.cb.State()
}

func (f *Forwarder) enqueue(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		f.log.Error("Failed to encode mirror message", zap.String("subject", subject), zap.Error(err))
		telemetry.MirrorPublishTotal.WithLabelValues(subject, "encode_error").Inc()
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}

	select {
	case f.buf <- message{subject: subject, data: data}:
	default:
		telemetry.MirrorPublishTotal.WithLabelValues(subject, "dropped").Inc()
		f.log.Debug("Mirror buffer full, message dropped", zap.String("subject", subject))
	}
}

func (f *Forwarder) run() {
	defer f.wg.Done()

	for msg := range f.buf {
		_, err := f.cb.Execute(func() (interface{}, error) {
			return nil, f.mq.Publish(msg.subject, msg.data)
		})

		switch {
		case err == nil:
			telemetry.MirrorPublishTotal.WithLabelValues(msg.subject, "ok").Inc()
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			telemetry.MirrorPublishTotal.WithLabelValues(msg.subject, "rejected").Inc()
		default:
			telemetry.MirrorPublishTotal.WithLabelValues(msg.subject, "error").Inc()
			f.log.Error("Failed to publish mirror message", zap.String("subject", msg.subject), zap.Error(err))
		}
	}
}

// Close detaches from the feed, publishes what is already buffered and
// closes the queue. Safe to call more than once.
func (f *Forwarder) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	unsubs := f.unsubs
	f.unsubs = nil
	close(f.buf)
	f.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	f.wg.Wait()

	return f.mq.Close()
}
