// Package draw picks a prize winner uniformly at random from a pool of
// candidates and paces a "spinning names" reveal before committing to it.
package draw

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"quiz-draw-service/internal/domain"
)

// Phase is the reveal state of a Session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseFast     Phase = "fast"
	PhaseSlowing  Phase = "slowing"
	PhaseSettling Phase = "settling" // winner on display, not yet committed
	PhaseSettled  Phase = "settled"
)

// Spinning reports whether a reveal cycle is in flight.
func (p Phase) Spinning() bool {
	return p == PhaseFast || p == PhaseSlowing || p == PhaseSettling
}

// Config holds the reveal pacing.
type Config struct {
	FastInterval time.Duration
	SlowInterval time.Duration
	SettlePause  time.Duration
	MinTicks     int // ticks per cycle are MinTicks + [0, TickSpread)
	TickSpread   int
	FastShare    float64 // fraction of ticks spent at FastInterval
}

// DefaultConfig returns the stock pacing: 40 to 59 ticks, the first 60% at
// 50ms, then decelerating linearly toward 500ms, with a 500ms settle pause.
func DefaultConfig() Config {
	return Config{
		FastInterval: 50 * time.Millisecond,
		SlowInterval: 500 * time.Millisecond,
		SettlePause:  500 * time.Millisecond,
		MinTicks:     40,
		TickSpread:   20,
		FastShare:    0.6,
	}
}

// Rand is the random source used for selection and display; *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

// Tick is one displayed name during a reveal.
type Tick struct {
	Iteration int           `json:"iteration"`
	Total     int           `json:"total"`
	Name      string        `json:"name"`
	Phase     Phase         `json:"phase"`
	Delay     time.Duration `json:"delay"` // until the next tick
}

// State is a point-in-time view of a Session.
type State struct {
	Phase      Phase             `json:"phase"`
	Display    string            `json:"display"`
	Winner     *domain.Candidate `json:"winner,omitempty"`
	Confirmed  bool              `json:"confirmed"`
	Candidates int               `json:"candidates"`
}

type Option func(*Session)

func WithConfig(cfg Config) Option { return func(s *Session) { s.cfg = cfg } }

func WithScheduler(sched Scheduler) Option { return func(s *Session) { s.sched = sched } }

func WithRand(rnd Rand) Option { return func(s *Session) { s.rnd = rnd } }

// OnTick, OnSettled and OnReset callbacks run while the session is locked:
// they must not block or call back into the Session.
func OnTick(f func(Tick)) Option { return func(s *Session) { s.onTick = f } }

func OnSettled(f func(domain.Candidate)) Option { return func(s *Session) { s.onSettled = f } }

func OnReset(f func()) Option { return func(s *Session) { s.onReset = f } }

// Session drives one draw. The winner is chosen when a cycle starts; the
// reveal that follows is presentation only.
type Session struct {
	cfg   Config
	sched Scheduler
	rnd   Rand

	onTick    func(Tick)
	onSettled func(domain.Candidate)
	onReset   func()

	mu         sync.Mutex
	candidates []domain.Candidate
	phase      Phase
	gen        uint64 // bumped on every new cycle or reset; stale timers compare against it
	timer      Timer
	display    string
	pending    domain.Candidate
	winner     *domain.Candidate
	confirmed  bool
	iteration  int
	total      int
}

// NewSession prepares an idle session over a copy of candidates. A single
// candidate is settled immediately as the sole winner.
func NewSession(candidates []domain.Candidate, opts ...Option) (*Session, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrEmptyPool
	}
	s := &Session{
		cfg:        DefaultConfig(),
		sched:      Realtime,
		candidates: slices.Clone(candidates),
		phase:      PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(s.candidates) == 1 {
		s.settleSoleLocked()
	}
	return s, nil
}

// Start creates a session and immediately begins a cycle.
func Start(candidates []domain.Candidate, opts ...Option) (*Session, error) {
	s, err := NewSession(candidates, opts...)
	if err != nil {
		return nil, err
	}
	s.Spin()
	return s, nil
}

// Spin starts a new cycle and reports whether it did. It is a no-op while
// a cycle is in flight. After settlement it discards the previous result,
// confirmed or not, and draws again independently. A sole candidate is
// re-announced as the winner without animation.
func (s *Session) Spin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Spinning() {
		return false
	}
	if len(s.candidates) == 1 {
		s.settleSoleLocked()
		s.notifySettledLocked()
		return false
	}

	s.stopLocked()
	s.gen++
	s.winner = nil
	s.confirmed = false
	s.pending = s.candidates[s.rnd.Intn(len(s.candidates))]
	s.total = s.cfg.MinTicks
	if s.cfg.TickSpread > 0 {
		s.total += s.rnd.Intn(s.cfg.TickSpread)
	}
	if s.total < 1 {
		s.total = 1
	}
	s.iteration = 0
	s.phase = PhaseFast
	s.tickLocked(s.gen)
	return true
}

// Reset cancels any pending tick and returns to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// SetCandidates replaces the pool. A different pool resets the session;
// an identical one leaves it untouched. It reports whether the pool changed.
// An empty pool is rejected and the session is left as it was.
func (s *Session) SetCandidates(candidates []domain.Candidate) (bool, error) {
	if len(candidates) == 0 {
		return false, domain.ErrEmptyPool
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Equal(s.candidates, candidates) {
		return false, nil
	}
	s.candidates = slices.Clone(candidates)
	s.resetLocked()
	return true, nil
}

// Confirm marks the settled winner as final and returns it. When persist is
// non-nil it runs first, with the session locked, and a failure leaves the
// winner unconfirmed.
func (s *Session) Confirm(persist func(domain.Candidate) error) (domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSettled || s.winner == nil {
		return domain.Candidate{}, domain.ErrNoWinner
	}
	if s.confirmed {
		return domain.Candidate{}, domain.ErrAlreadyConfirmed
	}
	if persist != nil {
		if err := persist(*s.winner); err != nil {
			return domain.Candidate{}, err
		}
	}
	s.confirmed = true
	return *s.winner, nil
}

// Winner returns the committed winner, if any.
func (s *Session) Winner() (domain.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.winner == nil {
		return domain.Candidate{}, false
	}
	return *s.winner, true
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Candidates returns a copy of the current pool.
func (s *Session) Candidates() []domain.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.candidates)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Phase:      s.phase,
		Display:    s.display,
		Confirmed:  s.confirmed,
		Candidates: len(s.candidates),
	}
	if s.winner != nil {
		w := *s.winner
		st.Winner = &w
	}
	return st
}

func (s *Session) tickLocked(gen uint64) {
	s.iteration++
	n := float64(s.total)
	fastTicks := n * s.cfg.FastShare

	if s.iteration >= s.total {
		s.display = s.pending.Name
		s.phase = PhaseSettling
		s.emitTickLocked(s.pending.Name, s.cfg.SettlePause)
		s.timer = s.sched.AfterFunc(s.cfg.SettlePause, func() { s.settle(gen) })
		return
	}

	name := s.candidates[s.rnd.Intn(len(s.candidates))].Name
	delay := s.cfg.FastInterval
	if float64(s.iteration) < fastTicks {
		s.phase = PhaseFast
	} else {
		s.phase = PhaseSlowing
		progress := (float64(s.iteration) - fastTicks) / (n - fastTicks)
		delay += time.Duration(progress * float64(s.cfg.SlowInterval-s.cfg.FastInterval))
	}
	s.display = name
	s.emitTickLocked(name, delay)
	s.timer = s.sched.AfterFunc(delay, func() { s.fire(gen) })
}

func (s *Session) emitTickLocked(name string, delay time.Duration) {
	if s.onTick == nil {
		return
	}
	s.onTick(Tick{
		Iteration: s.iteration,
		Total:     s.total,
		Name:      name,
		Phase:     s.phase,
		Delay:     delay,
	})
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.tickLocked(gen)
}

func (s *Session) settle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	w := s.pending
	s.winner = &w
	s.timer = nil
	s.phase = PhaseSettled
	s.notifySettledLocked()
}

func (s *Session) settleSoleLocked() {
	w := s.candidates[0]
	s.winner = &w
	s.display = w.Name
	s.phase = PhaseSettled
}

func (s *Session) notifySettledLocked() {
	if s.onSettled != nil && s.winner != nil {
		s.onSettled(*s.winner)
	}
}

func (s *Session) resetLocked() {
	s.stopLocked()
	s.gen++
	s.phase = PhaseIdle
	s.display = ""
	s.winner = nil
	s.confirmed = false
	s.iteration = 0
	s.total = 0
	if len(s.candidates) == 1 {
		s.settleSoleLocked()
	}
	if s.onReset != nil {
		s.onReset()
	}
}

func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
