package quiz

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/models"
	"github.com/vytor/flashpulse/internal/testutil"
)

type fakeHandle struct {
	fn      func()
	stopped bool
}

func (h *fakeHandle) Stop() { h.stopped = true }

// fakeScheduler records handles and fires them on demand. Stopped handles can
// still be fired to simulate a tick racing with a transition.
type fakeScheduler struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (s *fakeScheduler) Every(_ time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &fakeHandle{fn: fn}
	s.handles = append(s.handles, h)
	return h
}

func (s *fakeScheduler) live() []*fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeHandle
	for _, h := range s.handles {
		if !h.stopped {
			out = append(out, h)
		}
	}
	return out
}

func (s *fakeScheduler) last() *fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[len(s.handles)-1]
}

// tick fires every live handle n times.
func (s *fakeScheduler) tick(n int) {
	for i := 0; i < n; i++ {
		for _, h := range s.live() {
			h.fn()
		}
	}
}

func newEngine(t *testing.T, deck models.Deck, opts ...Option) (*Engine, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	e, err := New(deck, append([]Option{WithScheduler(sched)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(e.Exit)
	return e, sched
}

func fourCards() models.Deck {
	return testutil.Deck("d1", "Capitals",
		"France", "Paris",
		"Spain", "Madrid",
		"Italy", "Rome",
		"Peru", "Lima",
	)
}

func TestNew_EmptyDeck(t *testing.T) {
	e, err := New(testutil.Deck("d0", "Empty"), WithScheduler(&fakeScheduler{}))
	assert.Nil(t, e)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyDeck)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEmptyDeck, appErr.Code)
}

func TestNew_StartsOnFirstCard(t *testing.T) {
	e, sched := newEngine(t, fourCards())

	s := e.Snapshot()
	assert.Equal(t, Active, s.Phase)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, "France", s.Card.Front)
	assert.False(t, s.Flipped)
	assert.Equal(t, DefaultCardSeconds, s.TimeLeft)
	assert.True(t, s.Ticking)
	assert.Zero(t, s.Progress())
	assert.Len(t, sched.live(), 1)
}

func TestTick_CountsDown(t *testing.T) {
	e, sched := newEngine(t, fourCards())

	sched.tick(3)
	assert.Equal(t, 12, e.Snapshot().TimeLeft)
}

func TestTick_TimeoutFlipsCard(t *testing.T) {
	e, sched := newEngine(t, fourCards(), WithCardDuration(3*time.Second))

	sched.tick(2)
	s := e.Snapshot()
	assert.False(t, s.Flipped)
	assert.Equal(t, 1, s.TimeLeft)

	sched.tick(1)
	s = e.Snapshot()
	assert.True(t, s.Flipped)
	assert.Equal(t, 0, s.TimeLeft)
	assert.False(t, s.Ticking)
	assert.Empty(t, sched.live())

	sched.last().fn()
	assert.Equal(t, 0, e.Snapshot().TimeLeft)
}

func TestFlip_FreezesCountdown(t *testing.T) {
	e, sched := newEngine(t, fourCards())

	sched.tick(5)
	require.NoError(t, e.Flip())
	s := e.Snapshot()
	assert.True(t, s.Flipped)
	assert.Equal(t, 10, s.TimeLeft)
	assert.Empty(t, sched.live())

	require.NoError(t, e.Flip())
	s = e.Snapshot()
	assert.False(t, s.Flipped)
	assert.False(t, s.Ticking)

	sched.last().fn()
	sched.last().fn()
	assert.Equal(t, 10, e.Snapshot().TimeLeft)
}

func TestFlip_StaleTickIgnored(t *testing.T) {
	e, sched := newEngine(t, fourCards())
	first := sched.last()

	require.NoError(t, e.Flip())
	require.NoError(t, e.Grade(true))

	// The old card's handle fires after the transition.
	first.fn()

	s := e.Snapshot()
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, DefaultCardSeconds, s.TimeLeft)
	assert.Len(t, sched.live(), 1)
}

func TestGrade_RequiresFlip(t *testing.T) {
	e, _ := newEngine(t, fourCards())

	err := e.Grade(true)
	assert.ErrorIs(t, err, ErrNotRevealed)

	s := e.Snapshot()
	assert.Zero(t, s.Correct)
	assert.Zero(t, s.Index)
}

func TestGrade_AdvancesAndResets(t *testing.T) {
	e, sched := newEngine(t, fourCards())

	sched.tick(4)
	require.NoError(t, e.Flip())
	require.NoError(t, e.Grade(false))

	s := e.Snapshot()
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, "Spain", s.Card.Front)
	assert.False(t, s.Flipped)
	assert.Equal(t, DefaultCardSeconds, s.TimeLeft)
	assert.Equal(t, 1, s.Incorrect)
	assert.InDelta(t, 0.25, s.Progress(), 1e-9)
	assert.Len(t, sched.live(), 1)
}

func TestGrade_FullRunSummary(t *testing.T) {
	e, sched := newEngine(t, fourCards())

	for _, known := range []bool{true, true, false, true} {
		require.NoError(t, e.Flip())
		require.NoError(t, e.Grade(known))
	}

	s := e.Snapshot()
	assert.Equal(t, Complete, s.Phase)
	assert.Empty(t, sched.live())
	assert.Equal(t, 1.0, s.Progress())

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{DeckTitle: "Capitals", Total: 4, Correct: 3, Incorrect: 1, Accuracy: 75}, sum)

	assert.ErrorIs(t, e.Flip(), ErrComplete)
	assert.ErrorIs(t, e.Grade(true), ErrComplete)
}

func TestGrade_TimeoutsOnlyRun(t *testing.T) {
	e, sched := newEngine(t, fourCards())

	for i := 0; i < 4; i++ {
		sched.tick(DefaultCardSeconds)

		s := e.Snapshot()
		require.Equal(t, Active, s.Phase)
		assert.Equal(t, i, s.Index)
		assert.True(t, s.Flipped)
		assert.Equal(t, 0, s.TimeLeft)
		assert.Empty(t, sched.live())

		// Further ticks of the expired handle change nothing.
		sched.last().fn()
		assert.Equal(t, 0, e.Snapshot().TimeLeft)

		require.NoError(t, e.Grade(i%2 == 0))
	}

	s := e.Snapshot()
	assert.Equal(t, Complete, s.Phase)
	assert.Equal(t, 3, s.Index)
	assert.Equal(t, 4, s.Correct+s.Incorrect)
	assert.Equal(t, 1.0, s.Progress())

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 50, sum.Accuracy)
}

func TestGrade_SingleCardTimeout(t *testing.T) {
	deck := testutil.Deck("d1", "One", "Q", "A")
	e, sched := newEngine(t, deck, WithCardDuration(2*time.Second))

	sched.tick(2)
	require.True(t, e.Snapshot().Flipped)
	require.NoError(t, e.Grade(false))

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Accuracy)
	assert.Equal(t, 1, sum.Incorrect)
}

func TestSummary_NotComplete(t *testing.T) {
	e, _ := newEngine(t, fourCards())
	_, err := e.Summary()
	assert.Error(t, err)
}

func TestExit_StopsTimer(t *testing.T) {
	e, sched := newEngine(t, fourCards())
	h := sched.last()

	e.Exit()
	assert.True(t, h.stopped)
	assert.Equal(t, Closed, e.Snapshot().Phase)

	h.fn()
	assert.Equal(t, DefaultCardSeconds, e.Snapshot().TimeLeft)

	e.Exit()
	assert.ErrorIs(t, e.Flip(), ErrClosed)
	assert.ErrorIs(t, e.Grade(true), ErrClosed)
	_, err := e.Summary()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestListener_ReceivesEveryChange(t *testing.T) {
	var got []Snapshot
	e, sched := newEngine(t, fourCards(), WithListener(func(s Snapshot) {
		got = append(got, s)
	}))

	sched.tick(1)
	require.NoError(t, e.Flip())
	require.NoError(t, e.Grade(true))
	assert.ErrorIs(t, e.Grade(true), ErrNotRevealed)

	// start, tick, flip, grade; the refused grade changes nothing.
	require.Len(t, got, 4)
	assert.Equal(t, DefaultCardSeconds, got[0].TimeLeft)
	assert.Equal(t, 14, got[1].TimeLeft)
	assert.True(t, got[2].Flipped)
	assert.Equal(t, 1, got[3].Index)
	assert.Equal(t, 1, got[3].Correct)
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Accuracy(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}

func TestTickerScheduler_AutoFlip(t *testing.T) {
	deck := testutil.Deck("d1", "Fast", "Q", "A")
	e, err := New(deck,
		WithCardDuration(2*time.Second),
		WithTickInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	defer e.Exit()

	assert.Eventually(t, func() bool {
		return e.Snapshot().Flipped
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, e.Snapshot().TimeLeft)
}

func TestTickerScheduler_StopHaltsCallbacks(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	h := TickerScheduler{}.Every(2*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()

	mu.Lock()
	after := calls
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, after+1)
}
