package board

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrRegistryClosed = errors.New("board registry is closed")

// Registry keeps one watched store per team.
type Registry struct {
	remote Remote
	source Subscriber
	logger *log.Logger
	opts   []Option

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	stores map[string]*Store
	closed bool
}

func NewRegistry(remote Remote, source Subscriber, logger *log.Logger, opts ...Option) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		remote: remote,
		source: source,
		logger: logger,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		stores: make(map[string]*Store),
	}
}

// Acquire returns the live store of a team, loading it on first use. Stores
// whose load failed, and sample boards of unknown teams, are not kept.
func (r *Registry) Acquire(ctx context.Context, teamID string) (*Store, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	st, ok := r.stores[teamID]
	if !ok {
		st = New(r.remote, teamID, r.logger, r.opts...)
		// watch before loading; a refetch triggered meanwhile outranks the load
		if err := st.Watch(r.ctx, r.source); err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.stores[teamID] = st
	}
	r.mu.Unlock()

	if st.Loaded() {
		return st, nil
	}
	if err := st.Load(ctx); err != nil {
		r.release(teamID, st)
		return nil, err
	}
	if st.IsSample() {
		// sample boards ignore the feed; callers get a detached copy
		r.release(teamID, st)
	}
	return st, nil
}

// release unregisters st if it is still the team's store and stops its watch.
func (r *Registry) release(teamID string, st *Store) {
	r.mu.Lock()
	if r.stores[teamID] == st {
		delete(r.stores, teamID)
	}
	r.mu.Unlock()
	st.Close()
}

// Evict drops a team's store and releases its subscription.
func (r *Registry) Evict(teamID string) {
	r.mu.Lock()
	st, ok := r.stores[teamID]
	delete(r.stores, teamID)
	r.mu.Unlock()
	if ok {
		st.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	stores := r.stores
	r.stores = map[string]*Store{}
	r.mu.Unlock()

	r.cancel()
	for _, st := range stores {
		st.Close()
	}
	r.logger.WithField("stores", len(stores)).Info("board registry closed")
}
