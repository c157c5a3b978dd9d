// Package cache holds the client's in-memory copy of the deck collection.
// Mutations apply locally and return at once; the full collection is then
// pushed to the server in the background. Failed pushes are reported, never
// retried and never rolled back.
package cache

import (
	"context"
	"sync"

	"github.com/vytor/flashpulse/internal/apiclient"
	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
	"github.com/vytor/flashpulse/internal/worker"
)

// Cache is the client-side deck collection.
type Cache struct {
	mu     sync.RWMutex
	decks  []models.Deck
	client apiclient.ClientInterface
	pool   *worker.Pool
	onErr  func(error)
	log    *logger.Logger

	// pushMu guards the collection waiting to be pushed. At most one push
	// job is queued; later changes replace its snapshot.
	pushMu     sync.Mutex
	pending    []models.Deck
	pendingWhy string
	queued     bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithPersistErrorHandler registers a callback for failed background pushes.
// It runs on the push goroutine.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(c *Cache) {
		c.onErr = fn
	}
}

// WithQueueSize sets how many pushes may wait behind the running one.
func WithQueueSize(n int) Option {
	return func(c *Cache) {
		c.pool = worker.NewPool(1, n)
	}
}

// New creates an empty cache that persists through client. Call Close when
// done to flush pending pushes.
func New(client apiclient.ClientInterface, opts ...Option) *Cache {
	c := &Cache{
		decks:  []models.Deck{},
		client: client,
		log:    logger.Default().WithPrefix("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = worker.NewPool(1, 32)
	}
	c.pool.Start(context.Background())
	return c
}

// Load replaces the cache with the server's collection. On failure the
// cache is emptied and the error is returned for reporting only.
func (c *Cache) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("cache")

	decks, err := c.client.ListDecks(ctx)
	if err != nil {
		log.Error("failed to load decks from backend: %v", err)
		decks = []models.Deck{}
	}

	c.mu.Lock()
	c.decks = models.CloneAll(decks)
	c.mu.Unlock()

	log.Debug("cache loaded with %d decks", len(decks))
	return err
}

// Decks returns a copy of the cached collection in display order.
func (c *Cache) Decks() []models.Deck {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CloneAll(c.decks)
}

// Len returns the number of cached decks.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.decks)
}

// Get returns a copy of the deck with the given id.
func (c *Cache) Get(id string) (models.Deck, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := models.IndexOf(c.decks, id)
	if i < 0 {
		return models.Deck{}, errors.NewNotFoundError("deck", id)
	}
	return c.decks[i].Clone(), nil
}

// Save stores deck locally and schedules a push of the whole collection. An
// existing deck keeps its position; a new one goes to the front. Save never
// waits for the network: changes made while a push is queued are merged
// into it.
func (c *Cache) Save(deck models.Deck) {
	deck = deck.Clone()

	c.mu.Lock()
	if i := models.IndexOf(c.decks, deck.ID); i >= 0 {
		c.decks[i] = deck
	} else {
		c.decks = append([]models.Deck{deck}, c.decks...)
	}
	submit := c.stageLocked("save")
	c.mu.Unlock()

	c.log.WithField("deck_id", deck.ID).Debug("deck saved locally")
	c.schedule(submit)
}

// remove deletes the deck locally and schedules a push. It reports whether
// a deck was removed.
func (c *Cache) remove(id string) bool {
	c.mu.Lock()
	i := models.IndexOf(c.decks, id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.decks = append(c.decks[:i:i], c.decks[i+1:]...)
	submit := c.stageLocked("delete")
	c.mu.Unlock()

	c.log.WithField("deck_id", id).Debug("deck removed locally")
	c.schedule(submit)
	return true
}

// stageLocked makes the current collection the next one to push. Callers
// hold c.mu, so staged snapshots are ordered like the mutations that made
// them. It reports whether a push job must be submitted.
func (c *Cache) stageLocked(reason string) bool {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()
	c.pending = models.CloneAll(c.decks)
	c.pendingWhy = reason
	if c.queued {
		c.log.Debug("merged %s into the queued push", reason)
		return false
	}
	c.queued = true
	return true
}

// schedule submits the push job. With at most one job queued the pool
// never blocks, so callers return without waiting on the network.
func (c *Cache) schedule(submit bool) {
	if !submit {
		return
	}
	if err := c.pool.Submit(&pushLatest{cache: c}); err != nil {
		c.pushMu.Lock()
		c.queued = false
		c.pending = nil
		c.pushMu.Unlock()
		c.reportPersistError(err)
	}
}

// takePending hands the newest staged collection to a running push.
func (c *Cache) takePending() ([]models.Deck, string) {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()
	decks, why := c.pending, c.pendingWhy
	c.pending, c.pendingWhy = nil, ""
	c.queued = false
	return decks, why
}

// pushLatest sends whatever collection is staged when it starts running.
type pushLatest struct {
	cache *Cache
}

func (j *pushLatest) Name() string { return "push_decks" }

func (j *pushLatest) Run(ctx context.Context) error {
	decks, why := j.cache.takePending()
	if decks == nil {
		return nil
	}
	job := &worker.PushCollectionJob{
		Client:  j.cache.client,
		Decks:   decks,
		Reason:  why,
		OnError: j.cache.reportPersistError,
	}
	return job.Run(ctx)
}

func (c *Cache) reportPersistError(err error) {
	c.log.Error("failed to save decks to backend: %v", err)
	if c.onErr != nil {
		c.onErr(err)
	}
}

// Flush waits until every scheduled push has finished.
func (c *Cache) Flush() {
	c.pool.Wait()
}

// Close flushes pending pushes and stops the push worker.
func (c *Cache) Close() {
	c.Flush()
	c.pool.Stop()
}
