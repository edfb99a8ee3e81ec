package session

import (
	"sync"
	"time"

	"github.com/qybrrlabs/portal/pkg/tool"
	"github.com/qybrrlabs/portal/pkg/types"
)

const (
	EventUserUpdated = "user_updated"

	// Per-subscriber buffer. A subscriber that stops draining loses events
	// rather than blocking publishers.
	subscriberBuffer = 8
)

// Event carries a session change to in-process subscribers. User is the
// provider's echoed snapshot, not a locally re-derived one.
type Event struct {
	Type   string      `json:"type"`
	UserID string      `json:"user_id"`
	User   *types.User `json:"user"`
	At     time.Time   `json:"at"`
}

type subscriber struct {
	userID string
	ch     chan Event
}

// Notifier is a push-style session change broadcaster. It replaces the
// hidden auth-listener singleton of the original surface with an explicit
// subscribe/unsubscribe interface; every mutation of a user's record
// publishes here so concurrently open surfaces see in-page edits.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]*subscriber)}
}

// Subscribe registers interest in events for userID. The returned id must be
// passed to Unsubscribe on every exit path of the consumer.
func (n *Notifier) Subscribe(userID string) (string, <-chan Event) {
	id := tool.GenerateUUIDV7()
	sub := &subscriber{userID: userID, ch: make(chan Event, subscriberBuffer)}

	n.mu.Lock()
	n.subs[id] = sub
	n.mu.Unlock()

	return id, sub.ch
}

func (n *Notifier) Unsubscribe(id string) {
	n.mu.Lock()
	sub, ok := n.subs[id]
	if ok {
		delete(n.subs, id)
	}
	n.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// Publish delivers ev to every subscriber of ev.UserID without blocking;
// slow subscribers drop events.
func (n *Notifier) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, sub := range n.subs {
		if sub.userID != ev.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// UserUpdated is a convenience wrapper for the common event.
func (n *Notifier) UserUpdated(user *types.User) {
	if user == nil {
		return
	}
	n.Publish(Event{Type: EventUserUpdated, UserID: user.ID, User: user})
}
