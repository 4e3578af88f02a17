package app

import (
	"sync"

	"quiz-draw-service/internal/domain"
	"quiz-draw-service/internal/draw"
)

// DrawEvent types streamed to room subscribers.
const (
	EventTick      = "tick"
	EventSettled   = "settled"
	EventConfirmed = "confirmed"
	EventReset     = "reset"
)

// DrawEvent is one observable step of a draw.
type DrawEvent struct {
	Type   string            `json:"type"`
	Key    string            `json:"key"`
	Tick   *draw.Tick        `json:"tick,omitempty"`
	Winner *domain.Candidate `json:"winner,omitempty"`
}

// DrawRoom is a live draw over one candidate pool, shared by every screen
// watching it.
type DrawRoom struct {
	key     string
	session *draw.Session

	mu          sync.Mutex
	subscribers map[chan DrawEvent]struct{}
	abandoned   bool // every watcher left; forget the room once it settles
	release     func(*DrawRoom)
}

// NewDrawRoom is exported for infrastructure layers and tests that seed rooms.
func NewDrawRoom(key string, candidates []domain.Candidate, opts ...draw.Option) (*DrawRoom, error) {
	r := &DrawRoom{
		key:         key,
		subscribers: make(map[chan DrawEvent]struct{}),
	}
	opts = append(opts,
		draw.OnTick(func(t draw.Tick) {
			r.broadcast(DrawEvent{Type: EventTick, Tick: &t})
		}),
		draw.OnSettled(func(c domain.Candidate) {
			r.broadcast(DrawEvent{Type: EventSettled, Winner: &c})
			r.releaseIfAbandoned()
		}),
		draw.OnReset(func() {
			r.broadcast(DrawEvent{Type: EventReset})
		}),
	)
	session, err := draw.NewSession(candidates, opts...)
	if err != nil {
		return nil, err
	}
	r.session = session
	return r, nil
}

func (r *DrawRoom) Key() string { return r.key }

func (r *DrawRoom) State() draw.State { return r.session.State() }

func (r *DrawRoom) Candidates() []domain.Candidate { return r.session.Candidates() }

// IsIdle reports whether no cycle is in flight and nobody is watching.
func (r *DrawRoom) IsIdle() bool {
	r.mu.Lock()
	watchers := len(r.subscribers)
	r.mu.Unlock()
	return watchers == 0 && !r.session.Phase().Spinning()
}

// subscribe must not hold r.mu while reading session state: session
// callbacks take r.mu with the session locked.
func (r *DrawRoom) subscribe() (<-chan DrawEvent, func()) {
	ch := make(chan DrawEvent, 64)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	r.abandoned = false
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
			r.abandoned = len(r.subscribers) == 0
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// releaseIfAbandoned runs with the session locked, so the release itself
// happens on its own goroutine once the session is free.
func (r *DrawRoom) releaseIfAbandoned() {
	r.mu.Lock()
	release := r.release
	gone := r.abandoned && len(r.subscribers) == 0
	r.mu.Unlock()
	if gone && release != nil {
		go release(r)
	}
}

func (r *DrawRoom) broadcast(ev DrawEvent) {
	ev.Key = r.key
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow watcher: drop its oldest event rather than stall the reveal.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
