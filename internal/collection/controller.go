package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/navigator/internal/store"
)

// Record is implemented by every collection row type.
type Record interface {
	RecordID() string
}

// Validator is implemented by records that check their own required fields
// before being written.
type Validator interface {
	Validate() error
}

// Controller owns one collection's local state. It reads through a
// store.Client, writes through the same client and reloads after every
// successful write. It is safe for concurrent use.
type Controller[T Record] struct {
	client store.Client
	spec   Spec
	log    *zap.Logger

	mu       sync.Mutex
	owner    string
	gen      uint64
	mutating bool
	state    State[T]
}

type options struct {
	log   *zap.Logger
	owner string
}

// Option configures a Controller.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithOwner sets the initial owner (signed-in user id).
func WithOwner(userID string) Option {
	return func(o *options) { o.owner = strings.TrimSpace(userID) }
}

// New creates a controller with empty state.
func New[T Record](client store.Client, spec Spec, opts ...Option) *Controller[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return &Controller[T]{
		client: client,
		spec:   spec,
		log:    o.log.With(zap.String("collection", spec.Name)),
		owner:  o.owner,
	}
}

// Spec returns the controller's collection spec.
func (c *Controller[T]) Spec() Spec { return c.spec }

// Owner returns the current owner.
func (c *Controller[T]) Owner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// SetOwner switches the controller to a different user. Local state is
// cleared and any load still in flight for the previous owner will be
// discarded when it completes. It reports whether the owner changed.
func (c *Controller[T]) SetOwner(userID string) bool {
	userID = strings.TrimSpace(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if userID == c.owner {
		return false
	}
	c.owner = userID
	c.gen++
	c.state = State[T]{}
	return true
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Busy reports whether a load or mutation is in flight. Views disable
// submission while it is true.
func (c *Controller[T]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Loading || c.mutating
}

// Load reads the collection and replaces local state with the result. On
// failure the previous items are kept and the error is recorded. A load whose
// result arrives after a newer load started (or after the owner changed)
// leaves state untouched and returns ErrSuperseded.
func (c *Controller[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	owner := c.owner
	c.state.Loading = true
	c.mu.Unlock()

	if c.spec.Owned && owner == "" {
		return c.finishLoad(gen, nil, ErrSignedOut)
	}

	started := time.Now()
	rows, err := c.client.Select(ctx, c.spec.Name, c.spec.Query(owner))
	var items []T
	if err == nil {
		items, err = store.Decode[T](rows)
		if err != nil {
			err = store.Wrap("select", c.spec.Name, err)
		}
	}
	c.log.Debug("load finished",
		zap.String("owner", owner),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(started)),
		zap.Error(err),
	)
	return c.finishLoad(gen, items, err)
}

func (c *Controller[T]) finishLoad(gen uint64, items []T, err error) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug("discarding stale load", zap.Uint64("generation", gen), zap.Uint64("current", c.gen))
		return nil, ErrSuperseded
	}
	c.state.Loading = false
	c.state.LastUpdated = time.Now()
	if err != nil {
		c.state.LastError = err
		c.state.ConsecutiveFailures++
		if !errors.Is(err, ErrSignedOut) {
			c.log.Warn("load failed", zap.Error(err), zap.Int("consecutive_failures", c.state.ConsecutiveFailures))
		}
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	c.state.Items = items
	c.state.Loaded = true
	c.state.LastError = nil
	c.state.ConsecutiveFailures = 0
	return cloneItems(items), nil
}

// Create validates rec, inserts it for the current owner and reloads.
// Validation failures are returned before the store is touched.
func (c *Controller[T]) Create(ctx context.Context, rec T) error {
	if v, ok := any(rec).(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	row, err := store.Encode(rec)
	if err != nil {
		return err
	}
	if row.ID() == "" {
		delete(row, store.IDColumn)
	}
	return c.mutate(ctx, "create", "", func(owner string) error {
		if c.spec.Owned {
			row[store.OwnerColumn] = owner
		}
		_, err := c.client.Insert(ctx, c.spec.Name, row)
		return err
	})
}

// Update writes patch to the record with id and reloads. The identifier and
// owner columns cannot be patched.
func (c *Controller[T]) Update(ctx context.Context, id string, patch store.Row) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invalid(store.IDColumn, "is required")
	}
	if len(patch) == 0 {
		return Invalid("", "nothing to update")
	}
	for _, col := range []string{store.IDColumn, store.OwnerColumn} {
		if _, ok := patch[col]; ok {
			return Invalid(col, "cannot be changed")
		}
	}
	return c.mutate(ctx, "update", id, func(string) error {
		return c.client.Update(ctx, c.spec.Name, id, patch.Clone())
	})
}

// Delete asks confirm whether to remove the record with id. A nil confirmer
// or a negative answer is a no-op. On success the collection is reloaded.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invalid(store.IDColumn, "is required")
	}
	if confirm == nil || !confirm.Confirm(c.spec.DeletePrompt()) {
		c.log.Debug("delete declined", zap.String("id", id))
		return nil
	}
	return c.mutate(ctx, "delete", id, func(string) error {
		return c.client.Delete(ctx, c.spec.Name, id)
	})
}

// mutate runs write with the busy flag held, records a failure in state and
// reloads after success. The flag stays set until the reload finishes, so a
// follow-up write never decides from the pre-write snapshot.
func (c *Controller[T]) mutate(ctx context.Context, op, id string, write func(owner string) error) error {
	if c.spec.ReadOnly {
		return ErrReadOnly
	}
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return ErrBusy
	}
	owner := c.owner
	if c.spec.Owned && owner == "" {
		c.mu.Unlock()
		return ErrSignedOut
	}
	c.mutating = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.mutating = false
		c.mu.Unlock()
	}()

	if err := write(owner); err != nil {
		c.mu.Lock()
		c.state.LastError = err
		c.mu.Unlock()
		c.log.Warn(op+" failed", zap.String("id", id), zap.Error(err))
		return err
	}
	c.log.Info(op+" succeeded", zap.String("id", id))

	if _, err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("reload after %s: %w", op, err)
	}
	return nil
}
