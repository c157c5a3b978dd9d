package quiz

import (
	"sync"
	"time"
)

// Scheduler starts periodic callbacks. The engine owns every Handle it gets
// and stops it before scheduling another.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// Handle cancels one periodic callback.
type Handle interface {
	Stop()
}

// TickerScheduler runs callbacks from a time.Ticker goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	go h.loop(fn)
	return h
}

type tickerHandle struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (h *tickerHandle) loop(fn func()) {
	for {
		select {
		case <-h.stop:
			return
		case <-h.ticker.C:
			select {
			case <-h.stop:
				return
			default:
			}
			fn()
		}
	}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.stop)
	})
}
