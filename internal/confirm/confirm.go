// Package confirm correlates a prompt sent to a user with that user's next
// message in the same channel, so destructive commands can ask "are you sure?"
// and wait for the answer with a bounded timeout.
package confirm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is how long a prompt waits for its reply.
const DefaultTimeout = 30 * time.Second

// Affirmative is the literal reply that confirms a prompt.
const Affirmative = "yes"

var (
	// ErrTimeout is returned when no reply arrives before the timeout.
	ErrTimeout = errors.New("confirmation timed out")
	// ErrDeclined is returned when the reply is anything other than Affirmative.
	ErrDeclined = errors.New("confirmation declined")
)

// Key correlates a prompt with its reply: same author in the same channel of
// the same community.
type Key struct {
	Platform    string
	CommunityID string
	ChannelID   string
	AuthorID    string
}

// Prompter sends the prompt text to the user.
type Prompter interface {
	Reply(ctx context.Context, text string) error
}

type waiter struct {
	replies chan string
}

// Broker holds the prompts currently waiting for a reply.
type Broker struct {
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	waiters map[Key]*waiter
}

// NewBroker creates a Broker. A non-positive timeout uses DefaultTimeout.
func NewBroker(timeout time.Duration, logger *slog.Logger) *Broker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Broker{
		timeout: timeout,
		logger:  logger.With("component", "confirm"),
		waiters: make(map[Key]*waiter),
	}
}

// Timeout returns how long Ask waits for a reply.
func (b *Broker) Timeout() time.Duration {
	return b.timeout
}

// Ask sends prompt and waits for the correlated reply. It returns nil when the
// reply is Affirmative, ErrDeclined for any other reply and ErrTimeout when
// nothing arrives in time. A newer Ask for the same key declines this one.
func (b *Broker) Ask(ctx context.Context, key Key, p Prompter, prompt string) error {
	w := b.register(key)
	defer b.unregister(key, w)

	if err := p.Reply(ctx, prompt); err != nil {
		return err
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case reply, ok := <-w.replies:
		if !ok {
			b.logger.DebugContext(ctx, "Prompt superseded by a newer one", "author_id", key.AuthorID)
			return ErrDeclined
		}
		if strings.EqualFold(reply, Affirmative) {
			return nil
		}
		return ErrDeclined
	case <-timer.C:
		b.logger.DebugContext(ctx, "Prompt timed out", "author_id", key.AuthorID, "timeout", b.timeout)
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver hands an incoming message to the prompt waiting on key. It reports
// whether the message was consumed; consumed messages must not be processed
// as commands.
func (b *Broker) Deliver(key Key, text string) bool {
	b.mu.Lock()
	w, ok := b.waiters[key]
	if ok {
		delete(b.waiters, key)
	}
	b.mu.Unlock()

	if !ok {
		return false
	}
	w.replies <- text
	return true
}

// Pending reports how many prompts are waiting.
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiters)
}

func (b *Broker) register(key Key) *waiter {
	w := &waiter{replies: make(chan string, 1)}

	b.mu.Lock()
	previous := b.waiters[key]
	b.waiters[key] = w
	b.mu.Unlock()

	if previous != nil {
		close(previous.replies)
	}
	return w
}

func (b *Broker) unregister(key Key, w *waiter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiters[key] == w {
		delete(b.waiters, key)
	}
}
