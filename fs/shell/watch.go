package shell

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/fs/shell/internal/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WatchEvent is a change to an entry of a watched directory. Context is the
// entry's path relative to the directory.
type WatchEvent = core.WatchEvent[Path]

// WatchOption overrides the filesystem's watch configuration for one
// service.
type WatchOption func(*WatchConfig)

// WithStrategy selects the detection strategy.
func WithStrategy(s WatchStrategy) WatchOption {
	return func(c *WatchConfig) { c.Strategy = s }
}

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) WatchOption {
	return func(c *WatchConfig) { c.Interval = d }
}

// WatchService detects changes in registered directories and queues the
// keys that have pending events. Every key runs its own goroutine.
type WatchService struct {
	fs       *FileSystem
	config   WatchConfig
	logger   *zap.Logger
	queue    *keyQueue
	ctx      context.Context
	cancel   context.CancelFunc
	group    *errgroup.Group
	closed   atomic.Bool
	registry sync.Mutex
	keys     map[string]*WatchKey
}

// NewWatchService creates a watch service using the filesystem's watch
// configuration, adjusted by opts.
func (f *FileSystem) NewWatchService(opts ...WatchOption) (*WatchService, error) {
	if !f.IsOpen() {
		return nil, errs.Closed("watch", f.key)
	}

	cfg := f.config.Watch
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = WatchPolling
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Strategy != WatchPolling && cfg.Strategy != WatchInotify {
		return nil, errors.Newf(errors.CodeInvalidInput, "unknown watch strategy %q", cfg.Strategy)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &WatchService{
		fs:     f,
		config: cfg,
		logger: f.logger.With(zap.String("strategy", string(cfg.Strategy))),
		queue:  newKeyQueue(),
		ctx:    ctx,
		cancel: cancel,
		group:  &errgroup.Group{},
		keys:   make(map[string]*WatchKey),
	}
	f.addService(s)
	s.logger.Debug("watch service created", zap.Duration("interval", cfg.Interval))
	return s, nil
}

// Register starts watching dir for kinds, or for every kind when none are
// given. dir must be a readable directory. Registering a directory that is
// already watched returns its existing key.
func (s *WatchService) Register(ctx context.Context, dir Path, kinds ...core.EventKind) (*WatchKey, error) {
	if s.closed.Load() {
		return nil, errClosedService()
	}
	if err := s.fs.checkPath("register", dir); err != nil {
		return nil, err
	}

	abs := dir.ToAbsolute()
	attrs, err := s.fs.ReadAttributes(ctx, abs)
	if err != nil {
		return nil, err
	}
	if !attrs.IsDirectory() {
		return nil, errs.NotDirectory("register", dir.String())
	}
	if err := s.fs.CheckAccess(ctx, abs, core.AccessRead); err != nil {
		return nil, err
	}

	s.registry.Lock()
	defer s.registry.Unlock()
	if s.closed.Load() {
		return nil, errClosedService()
	}
	if k, ok := s.keys[abs.String()]; ok {
		return k, nil
	}

	k := newWatchKey(s, abs, kinds)
	s.keys[abs.String()] = k
	s.fs.metrics.addKeys(1)
	s.group.Go(func() error {
		if s.config.Strategy == WatchInotify {
			k.stream()
		} else {
			k.poll()
		}
		return nil
	})
	s.logger.Info("watching directory", zap.String("dir", abs.String()), zap.Stringer("key", k.id))
	return k, nil
}

// unregister removes k from the registry and stops its goroutine.
func (s *WatchService) unregister(k *WatchKey) {
	s.registry.Lock()
	defer s.registry.Unlock()
	if cur, ok := s.keys[k.dir.String()]; !ok || cur != k {
		return
	}
	delete(s.keys, k.dir.String())
	k.stop()
	s.fs.metrics.addKeys(-1)
}

func (s *WatchService) enqueue(k *WatchKey) {
	if s.closed.Load() {
		return
	}
	s.queue.push(k)
}

// Poll returns a signalled key without blocking.
func (s *WatchService) Poll() (*WatchKey, bool, error) {
	if s.closed.Load() {
		return nil, false, errClosedService()
	}
	k, ok := s.queue.pop()
	return k, ok, nil
}

// PollTimeout waits up to timeout for a signalled key.
func (s *WatchService) PollTimeout(timeout time.Duration) (*WatchKey, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	k, err := s.Take(ctx)
	switch {
	case err == nil:
		return k, true, nil
	case errors.Is(err, context.DeadlineExceeded):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// Take blocks until a key is signalled, ctx is done, or the service is
// closed.
func (s *WatchService) Take(ctx context.Context) (*WatchKey, error) {
	if s.closed.Load() {
		return nil, errClosedService()
	}
	k, err := s.queue.take(ctx)
	if errors.Is(err, errQueueClosed) {
		return nil, errClosedService()
	}
	return k, err
}

// Close invalidates every key, waits for their goroutines to exit, and
// wakes blocked Take calls. Close is idempotent.
func (s *WatchService) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.registry.Lock()
	for path, k := range s.keys {
		delete(s.keys, path)
		k.stop()
		s.fs.metrics.addKeys(-1)
	}
	s.registry.Unlock()

	s.cancel()
	s.queue.close()
	err := s.group.Wait()
	s.fs.removeService(s)
	s.logger.Debug("watch service closed")
	return err
}

func errClosedService() error {
	return errors.Wrap(core.ErrClosedWatchService, errors.CodeClosed, "watch service is closed")
}

var errQueueClosed = stderrors.New("queue closed")

// keyQueue is an unbounded FIFO of signalled keys.
type keyQueue struct {
	mu    sync.Mutex
	items []*WatchKey
	ready chan struct{}
	done  chan struct{}
}

func newKeyQueue() *keyQueue {
	return &keyQueue{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (q *keyQueue) push(k *WatchKey) {
	q.mu.Lock()
	q.items = append(q.items, k)
	q.mu.Unlock()
	q.wake()
}

func (q *keyQueue) wake() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *keyQueue) pop() (*WatchKey, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return nil, false
	}
	k := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	more := len(q.items) > 0
	q.mu.Unlock()

	if more {
		q.wake()
	}
	return k, true
}

func (q *keyQueue) take(ctx context.Context) (*WatchKey, error) {
	for {
		if k, ok := q.pop(); ok {
			return k, nil
		}
		select {
		case <-q.ready:
		case <-q.done:
			return nil, errQueueClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (q *keyQueue) close() {
	close(q.done)
}

var _ core.WatchService[*WatchKey] = (*WatchService)(nil)
