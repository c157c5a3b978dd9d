// Package quiz runs a timed, graded pass through a deck.
//
// Each card starts face down with a countdown. The countdown ticks once per
// interval while the front is showing; at zero the card flips itself. Once a
// card has shown its back the countdown is frozen for the rest of that card.
// Grading a revealed card records one result and moves on; grading the last
// card completes the session.
package quiz

import (
	stderrors "errors"
	"math"
	"sync"
	"time"

	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

// DefaultCardSeconds is the countdown each card starts with.
const DefaultCardSeconds = 15

var (
	// ErrEmptyDeck matches the error New returns for a deck without cards.
	ErrEmptyDeck = errors.ErrEmptyDeck
	// ErrNotRevealed is returned when grading a card still showing its front.
	ErrNotRevealed = stderrors.New("card must be flipped before grading")
	// ErrComplete is returned for card actions after the last card was graded.
	ErrComplete = stderrors.New("quiz is complete")
	// ErrClosed is returned for any action after Exit.
	ErrClosed = stderrors.New("quiz session is closed")
)

// Phase is the coarse session state.
type Phase int

const (
	Active Phase = iota
	Complete
	Closed
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Complete:
		return "complete"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	DeckTitle string
	Phase     Phase
	Index     int
	Total     int
	Card      models.Card
	Flipped   bool
	TimeLeft  int
	Ticking   bool
	Correct   int
	Incorrect int
}

// Progress is the fraction of cards already graded.
func (s Snapshot) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	if s.Phase == Complete {
		return 1
	}
	return float64(s.Index) / float64(s.Total)
}

// Summary is the result of a completed session.
type Summary struct {
	DeckTitle string
	Total     int
	Correct   int
	Incorrect int
	Accuracy  int
}

// Accuracy returns round(correct/total*100).
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Engine is one quiz session. It is safe for concurrent use; listeners run
// after each change, one at a time, and must not call mutating methods.
type Engine struct {
	notifyMu sync.Mutex
	mu       sync.Mutex

	deck      models.Deck
	seconds   int
	interval  time.Duration
	scheduler Scheduler
	listeners []func(Snapshot)
	log       *logger.Logger

	phase     Phase
	index     int
	flipped   bool
	revealed  bool
	timeLeft  int
	correct   int
	incorrect int

	timer Handle
	gen   uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithCardDuration sets the per-card countdown, rounded up to whole seconds.
func WithCardDuration(d time.Duration) Option {
	return func(e *Engine) {
		if n := int(math.Ceil(d.Seconds())); n > 0 {
			e.seconds = n
		}
	}
}

// WithTickInterval sets the wall time of one countdown step.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithScheduler replaces the ticker-based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithListener registers fn to receive a snapshot after every change.
func WithListener(fn func(Snapshot)) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, fn)
	}
}

// New starts a session on the first card of deck. A deck without cards is
// refused and no session is created.
func New(deck models.Deck, opts ...Option) (*Engine, error) {
	if deck.CardCount() == 0 {
		return nil, errors.NewEmptyDeckError(deck.Title)
	}
	e := &Engine{
		deck:      deck.Clone(),
		seconds:   DefaultCardSeconds,
		interval:  time.Second,
		scheduler: TickerScheduler{},
		log:       logger.Default().WithPrefix("quiz").WithField("deck_id", deck.ID),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.mu.Lock()
	e.enterCard(0)
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.log.Debug("quiz started with %d cards", snap.Total)
	e.notify(snap)
	return e, nil
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Flip turns the current card over. Showing the back stops the countdown;
// turning back to the front does not restart it.
func (e *Engine) Flip() error {
	return e.update(func() error {
		if err := e.activeLocked(); err != nil {
			return err
		}
		e.flipped = !e.flipped
		if e.flipped {
			e.revealed = true
			e.stopTimerLocked()
		}
		return nil
	})
}

// Grade records whether the user knew the current card and advances.
func (e *Engine) Grade(known bool) error {
	return e.update(func() error {
		if err := e.activeLocked(); err != nil {
			return err
		}
		if !e.flipped {
			return ErrNotRevealed
		}
		if known {
			e.correct++
		} else {
			e.incorrect++
		}
		if e.index < len(e.deck.Cards)-1 {
			e.enterCard(e.index + 1)
			return nil
		}
		e.stopTimerLocked()
		e.phase = Complete
		e.log.Info("quiz complete: %d/%d correct", e.correct, len(e.deck.Cards))
		return nil
	})
}

// Summary returns the result once every card has been graded.
func (e *Engine) Summary() (Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case Active:
		return Summary{}, stderrors.New("quiz is not complete")
	case Closed:
		return Summary{}, ErrClosed
	}
	total := len(e.deck.Cards)
	return Summary{
		DeckTitle: e.deck.Title,
		Total:     total,
		Correct:   e.correct,
		Incorrect: e.incorrect,
		Accuracy:  Accuracy(e.correct, total),
	}, nil
}

// Exit ends the session and stops its countdown. Calling it again is a no-op.
func (e *Engine) Exit() {
	_ = e.update(func() error {
		if e.phase == Closed {
			return ErrClosed
		}
		e.stopTimerLocked()
		e.phase = Closed
		return nil
	})
}

// update applies fn under the state lock and notifies listeners if it
// succeeded.
func (e *Engine) update(fn func() error) error {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	if err := fn(); err != nil {
		e.mu.Unlock()
		return err
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	return nil
}

func (e *Engine) notify(s Snapshot) {
	for _, fn := range e.listeners {
		fn(s)
	}
}

func (e *Engine) activeLocked() error {
	switch e.phase {
	case Complete:
		return ErrComplete
	case Closed:
		return ErrClosed
	}
	return nil
}

// enterCard resets per-card state and starts a fresh countdown.
func (e *Engine) enterCard(i int) {
	e.stopTimerLocked()
	e.index = i
	e.flipped = false
	e.revealed = false
	e.timeLeft = e.seconds

	gen := e.gen
	e.timer = e.scheduler.Every(e.interval, func() { e.tick(gen) })
}

// stopTimerLocked cancels the live countdown. Bumping the generation turns
// any tick already in flight into a no-op.
func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

func (e *Engine) tick(gen uint64) {
	_ = e.update(func() error {
		if gen != e.gen || e.phase != Active || e.flipped || e.revealed {
			return errStaleTick
		}
		if e.timeLeft > 0 {
			e.timeLeft--
		}
		if e.timeLeft == 0 {
			e.flipped = true
			e.revealed = true
			e.stopTimerLocked()
			e.log.Debug("time is up on card %d", e.index)
		}
		return nil
	})
}

var errStaleTick = stderrors.New("stale tick")

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		DeckTitle: e.deck.Title,
		Phase:     e.phase,
		Index:     e.index,
		Total:     len(e.deck.Cards),
		Flipped:   e.flipped,
		TimeLeft:  e.timeLeft,
		Ticking:   e.timer != nil,
		Correct:   e.correct,
		Incorrect: e.incorrect,
	}
	if e.index < len(e.deck.Cards) {
		s.Card = e.deck.Cards[e.index]
	}
	return s
}
