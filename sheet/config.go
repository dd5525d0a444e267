package sheet

import (
	"os"
	"strconv"
)

// defaultNotifyWorkers mirrors the teacher's WebhookWorkersCount.
const defaultNotifyWorkers = 5

// defaultNotifyQueueSize mirrors the teacher's buffered webhook queue.
const defaultNotifyQueueSize = 20

type config struct {
	notifyWorkers   int
	notifyQueueSize int
}

// defaultConfig reads operational tuning from the environment the same
// way the teacher's App.go reads DATABASE_FILEPATH: a plain os.Getenv,
// no configuration framework.
func defaultConfig() config {
	return config{
		notifyWorkers:   envInt("CELLSHEET_NOTIFY_WORKERS", defaultNotifyWorkers),
		notifyQueueSize: envInt("CELLSHEET_NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
	}
}

// Option customizes a Sheet at construction time.
type Option func(*config)

// WithNotifyWorkers overrides the size of the change-notification
// worker pool.
func WithNotifyWorkers(n int) Option {
	return func(c *config) { c.notifyWorkers = n }
}

// WithNotifyQueueSize overrides the capacity of the pending
// change-notification queue.
func WithNotifyQueueSize(n int) Option {
	return func(c *config) { c.notifyQueueSize = n }
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
