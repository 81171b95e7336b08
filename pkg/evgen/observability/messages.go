package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// MessageCounter counts repeated diagnostic messages. Each distinct message
// is logged the first Limit times it is reported and only counted after
// that; Summary lists every message with its total count.
type MessageCounter struct {
	mu     sync.Mutex
	logger *slog.Logger
	limit  int
	counts map[string]int
}

// NewMessageCounter returns a counter that logs each message at most limit
// times. A nil logger only counts.
func NewMessageCounter(logger *slog.Logger, limit int) *MessageCounter {
	return &MessageCounter{
		logger: logger,
		limit:  limit,
		counts: make(map[string]int),
	}
}

// Report counts msg and logs it at warning level while under the limit.
// It returns how many times msg has now been reported.
func (c *MessageCounter) Report(msg string, attrs ...slog.Attr) int {
	c.mu.Lock()
	c.counts[msg]++
	n := c.counts[msg]
	c.mu.Unlock()

	if c.logger != nil && n <= c.limit {
		c.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, append(attrs, slog.Int("times", n))...)
	}
	return n
}

// Count returns how often msg was reported.
func (c *MessageCounter) Count(msg string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[msg]
}

// Total returns the number of reports over all messages.
func (c *MessageCounter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Reset forgets all counts.
func (c *MessageCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int)
}

// Summary writes one line per distinct message, sorted by message.
func (c *MessageCounter) Summary(w io.Writer) error {
	c.mu.Lock()
	msgs := make([]string, 0, len(c.counts))
	for m := range c.counts {
		msgs = append(msgs, m)
	}
	counts := make(map[string]int, len(c.counts))
	for m, n := range c.counts {
		counts[m] = n
	}
	c.mu.Unlock()
	sort.Strings(msgs)

	if _, err := fmt.Fprintf(w, "\n --------  Error and Warning Statistics  ------------------------------\n |  times   message\n"); err != nil {
		return err
	}
	if len(msgs) == 0 {
		if _, err := fmt.Fprintf(w, " |      0   no errors or warnings to report\n"); err != nil {
			return err
		}
	}
	for _, m := range msgs {
		if _, err := fmt.Fprintf(w, " | %6d   %s\n", counts[m], m); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, " --------  End Error and Warning Statistics  --------------------------\n")
	return err
}
