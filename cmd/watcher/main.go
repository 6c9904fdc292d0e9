package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/adapter/queue"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
)

var (
	serverURL     = flag.String("server", "ws://localhost:8080/ws/updates", "Live feed WebSocket URL")
	types         = flag.String("types", "", "Comma-separated envelope types to log (transaction,event,update); empty logs all")
	queueDriver   = flag.String("queue-driver", "", "Tail the queue mirror instead of the websocket (nats or rabbitmq)")
	queueURL      = flag.String("queue-url", "nats://localhost:4222", "Message queue URL")
	subjectPrefix = flag.String("subject-prefix", "vending", "Queue mirror subject prefix")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	level, format := "info", "json"
	if *verbose {
		level, format = "debug", "console"
	}
	logger, err := telemetry.NewLogger(level, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config := &WatcherConfig{
		ServerURL: *serverURL,
		Types:     parseTypes(*types),
	}
	watcher := NewWatcher(config, logger)

	if *queueDriver != "" {
		mq, err := queue.Open(*queueDriver, *queueURL, queue.Options{}, logger.Named("queue"))
		if err != nil {
			logger.Fatal("Failed to connect to message queue", zap.Error(err))
		}
		if err := watcher.SubscribeQueue(mq, *subjectPrefix); err != nil {
			logger.Fatal("Failed to subscribe to queue mirror", zap.Error(err))
		}
	} else if err := watcher.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}

	fmt.Println("Vending fleet watcher started. Press Ctrl+C to stop")

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		fmt.Println("\nShutting down watcher...")
	case <-watcher.Done():
		logger.Warn("Live feed closed by server")
	}
	watcher.Stop()

	t := watcher.Tally()
	logger.Info("Watcher summary",
		zap.Int("transactions", t.Transactions),
		zap.Int("declined", t.Declined),
		zap.Int("revenue", t.Revenue),
		zap.Any("events", t.Events),
		zap.Int("updates", t.Updates),
	)
}

func parseTypes(s string) map[string]bool {
	if s == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = true
		}
	}
	return set
}
