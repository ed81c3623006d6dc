package interaction

import "sync"

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one message shown to the user during a run.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives user-facing messages as a run progresses.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Collector is a Notifier that keeps every notification in order.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// Success records a success message.
func (c *Collector) Success(msg string) { c.add(LevelSuccess, msg) }

// Error records an error message.
func (c *Collector) Error(msg string) { c.add(LevelError, msg) }

func (c *Collector) add(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, Notification{Level: level, Message: msg})
}

// Notifications returns a copy of everything collected so far.
func (c *Collector) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns how many notifications of level were collected.
func (c *Collector) Count(level Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.items {
		if item.Level == level {
			n++
		}
	}
	return n
}
