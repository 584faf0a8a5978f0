package view

import (
	"context"
	"sync"
)

// Fetcher loads a screen's payload
type Fetcher[T any] func(ctx context.Context) (T, error)

// MessageFunc turns a fetch error into the text shown to the user
type MessageFunc func(err error) string

// Resource owns the state of one screen instance. Each Load takes a new request
// token; only the outcome holding the latest token is stored, and starting a
// load cancels the one before it.
type Resource[T any] struct {
	mu      sync.Mutex
	state   State[T]
	token   uint64
	cancel  context.CancelFunc
	message MessageFunc
}

// NewResource creates an idle resource. message may be nil, in which case
// err.Error() is shown.
func NewResource[T any](message MessageFunc) *Resource[T] {
	if message == nil {
		message = func(err error) string { return err.Error() }
	}
	return &Resource[T]{message: message}
}

// State returns a snapshot of the current state
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Token returns the token of the latest load
func (r *Resource[T]) Token() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// Begin moves the resource to loading under a fresh token and returns the token
// and a context that is canceled when a newer load begins or the screen unmounts.
func (r *Resource[T]) Begin(parent context.Context) (uint64, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.token++
	r.cancel = cancel
	r.state = Loading[T]()
	return r.token, ctx
}

// Resolve records the outcome of the load identified by token. It reports
// whether the outcome was applied; a stale token leaves the state untouched.
func (r *Resource[T]) Resolve(token uint64, data T, err error) (State[T], bool) {
	var next State[T]
	if err != nil {
		next = Failure[T](r.message(err))
	} else {
		next = Success(data)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.token {
		return next, false
	}
	r.state = next
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return next, true
}

// Load runs fetch under a new token. The returned state is the outcome of this
// call; current is false when a newer load superseded it, in which case the
// stored state was not changed.
func (r *Resource[T]) Load(ctx context.Context, fetch Fetcher[T]) (st State[T], current bool) {
	token, fctx := r.Begin(ctx)
	data, err := fetch(fctx)
	return r.Resolve(token, data, err)
}

// Unmount cancels any in-flight load and discards the state. A load still
// running afterwards resolves as stale.
func (r *Resource[T]) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.token++
	r.state = Idle[T]()
}
