package shell

import (
	"bufio"
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/go/fs/core"
	"go.uber.org/zap"
)

var allEventKinds = []core.EventKind{core.EventCreate, core.EventDelete, core.EventModify}

// WatchKey is the registration of one directory with a WatchService.
//
// A key is READY until an event arrives, which signals it and queues it on
// the service. The consumer drains it with PollEvents and re-arms it with
// Reset. A cancelled key never signals again.
type WatchKey struct {
	id      uuid.UUID
	service *WatchService
	dir     Path
	kinds   map[core.EventKind]bool
	logger  *zap.Logger

	ctx       context.Context
	stop      context.CancelFunc
	cancelled atomic.Bool

	events   sync.Mutex
	creates  eventBuffer
	deletes  eventBuffer
	modifies eventBuffer

	state     sync.Mutex
	signalled bool

	trigger     chan struct{}
	initOnce    sync.Once
	initialized chan struct{}

	// snapshot is only touched by the key's goroutine.
	snapshot map[string]*core.Attributes
}

func newWatchKey(s *WatchService, dir Path, kinds []core.EventKind) *WatchKey {
	if len(kinds) == 0 {
		kinds = allEventKinds
	}
	set := make(map[core.EventKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}

	id := uuid.New()
	ctx, stop := context.WithCancel(s.ctx)
	return &WatchKey{
		id:          id,
		service:     s,
		dir:         dir,
		kinds:       set,
		logger:      s.logger.With(zap.String("dir", dir.String()), zap.Stringer("key", id)),
		ctx:         ctx,
		stop:        stop,
		creates:     newEventBuffer(core.EventCreate),
		deletes:     newEventBuffer(core.EventDelete),
		modifies:    newEventBuffer(core.EventModify),
		trigger:     make(chan struct{}, 1),
		initialized: make(chan struct{}),
	}
}

// ID returns the key's unique id.
func (k *WatchKey) ID() uuid.UUID { return k.id }

// Watchable returns the watched directory as an absolute path.
func (k *WatchKey) Watchable() Path { return k.dir }

// IsValid reports whether the key is neither cancelled nor owned by a
// closed service.
func (k *WatchKey) IsValid() bool {
	return !k.cancelled.Load() && !k.service.closed.Load()
}

// Cancel unregisters the key and stops its goroutine. A streaming key's
// session is closed immediately.
func (k *WatchKey) Cancel() {
	k.cancelled.Store(true)
	k.service.unregister(k)
}

// PollEvents returns and clears the pending events: creates, then deletes,
// then modifies, each in arrival order.
func (k *WatchKey) PollEvents() []WatchEvent {
	k.events.Lock()
	defer k.events.Unlock()

	out := make([]WatchEvent, 0, k.creates.len()+k.deletes.len()+k.modifies.len())
	out = k.creates.drain(out)
	out = k.deletes.drain(out)
	out = k.modifies.drain(out)
	return out
}

// Reset re-arms the key after its events were consumed. When events
// arrived in the meantime the key is queued again right away. Reset
// returns false once the key is invalid.
func (k *WatchKey) Reset() bool {
	if !k.IsValid() {
		return false
	}

	k.state.Lock()
	defer k.state.Unlock()

	k.events.Lock()
	pending := k.creates.len()+k.deletes.len()+k.modifies.len() > 0
	k.events.Unlock()

	if pending {
		k.signalled = true
		k.service.enqueue(k)
		return true
	}
	k.signalled = false
	return true
}

// WaitForInitialization waits up to timeout for the first snapshot of the
// directory, or for the event stream to start. It reports whether the key
// is initialized.
func (k *WatchKey) WaitForInitialization(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-k.initialized:
		return true
	case <-timer.C:
		return false
	}
}

// PollNow makes a polling key check the directory without waiting for
// the interval. It has no effect on a streaming key.
func (k *WatchKey) PollNow() {
	select {
	case k.trigger <- struct{}{}:
	default:
	}
}

func (k *WatchKey) markInitialized() {
	k.initOnce.Do(func() { close(k.initialized) })
}

func (k *WatchKey) signal() {
	if !k.IsValid() {
		return
	}
	k.state.Lock()
	defer k.state.Unlock()
	if !k.signalled {
		k.signalled = true
		k.service.enqueue(k)
	}
}

func (k *WatchKey) addEvent(kind core.EventKind, rel string) {
	if !k.kinds[kind] || !k.IsValid() {
		return
	}

	k.events.Lock()
	switch kind {
	case core.EventCreate:
		k.creates.add(k.eventPath(rel), false)
	case core.EventDelete:
		k.deletes.add(k.eventPath(rel), false)
	case core.EventModify:
		k.modifies.add(k.eventPath(rel), true)
	}
	k.events.Unlock()

	k.service.fs.metrics.observeEvent(kind.String())
	k.logger.Debug("watch event", zap.Stringer("kind", kind), zap.String("path", rel))
	k.signal()
}

func (k *WatchKey) eventPath(rel string) Path {
	return parsePath(k.service.fs, rel)
}

// poll runs the polling strategy until the key is stopped.
func (k *WatchKey) poll() {
	defer k.logger.Info("poller stopped")

	for k.IsValid() {
		entries, err := k.service.fs.StatDirectory(k.ctx, k.dir)
		switch {
		case k.ctx.Err() != nil:
			return
		case err != nil:
			k.logger.Error("polling directory failed", zap.Error(err))
		default:
			k.observe(entries)
		}

		select {
		case <-k.ctx.Done():
			return
		case <-k.trigger:
		case <-time.After(k.service.config.Interval):
		}
	}
}

// observe diffs entries against the previous snapshot. The first call
// only records the baseline.
func (k *WatchKey) observe(entries map[string]*core.Attributes) {
	if k.snapshot == nil {
		k.snapshot = entries
		k.markInitialized()
		k.logger.Debug("poller initialized", zap.Int("entries", len(entries)))
		return
	}

	previous := k.snapshot
	for _, rel := range sortedKeys(entries) {
		old, ok := previous[rel]
		if !ok {
			k.addEvent(core.EventCreate, rel)
			continue
		}
		if modified(old, entries[rel]) {
			k.addEvent(core.EventModify, rel)
		}
	}
	for _, rel := range sortedKeys(previous) {
		if _, ok := entries[rel]; !ok {
			k.addEvent(core.EventDelete, rel)
		}
	}
	k.snapshot = entries
}

func modified(a, b *core.Attributes) bool {
	return a.Size != b.Size || !a.LastModifiedTime.Equal(b.LastModifiedTime)
}

func sortedKeys(m map[string]*core.Attributes) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stream runs the inotify strategy. It opens inotifywait on a duplicated
// session so cancelling the key can close exactly that session. The key
// becomes invalid when the stream ends for any reason.
func (k *WatchKey) stream() {
	defer k.logger.Info("event stream stopped")
	defer func() {
		k.cancelled.Store(true)
		k.service.unregister(k)
	}()

	f := k.service.fs
	session, err := f.session.Duplicate(k.ctx)
	if err != nil {
		k.logger.Debug("duplicating session failed", zap.Error(err))
		return
	}
	stopClose := context.AfterFunc(k.ctx, func() { _ = session.Close() })
	defer func() {
		if stopClose() {
			_ = session.Close()
		}
	}()

	command := f.line("inotifywait", "-m", "-e", "create", "-e", "modify", "-e", "delete",
		"--format", "'%:e %f'", k.dir.Quoted())
	k.logger.Debug("opening event stream", zap.String("command", command))
	st, err := session.Open(k.ctx, command)
	if err != nil {
		k.logger.Debug("opening event stream failed", zap.Error(err))
		return
	}
	defer st.Close()
	k.markInitialized()

	scanner := bufio.NewScanner(st.Stdout())
	for scanner.Scan() {
		kind, name, ok := parseInotifyLine(scanner.Text())
		if !ok {
			continue
		}
		rel := k.dir.relative(k.dir.ResolveString(name))
		k.addEvent(kind, rel.String())
	}
	if err := scanner.Err(); err != nil && k.ctx.Err() == nil {
		k.logger.Debug("event stream failed", zap.Error(err))
	}
}

// parseInotifyLine parses "EVENTS name" as printed by --format '%:e %f'.
// EVENTS is a colon or comma separated flag list such as CREATE:ISDIR.
func parseInotifyLine(line string) (core.EventKind, string, bool) {
	events, name, ok := strings.Cut(line, " ")
	if !ok || name == "" {
		return 0, "", false
	}
	for _, flag := range strings.FieldsFunc(events, func(r rune) bool { return r == ':' || r == ',' }) {
		switch flag {
		case "CREATE":
			return core.EventCreate, name, true
		case "MODIFY":
			return core.EventModify, name, true
		case "DELETE":
			return core.EventDelete, name, true
		}
	}
	return 0, "", false
}

// eventBuffer keeps one event per path in arrival order.
type eventBuffer struct {
	kind   core.EventKind
	order  []string
	events map[string]*WatchEvent
}

func newEventBuffer(kind core.EventKind) eventBuffer {
	return eventBuffer{kind: kind, events: make(map[string]*WatchEvent)}
}

func (b *eventBuffer) len() int { return len(b.order) }

// add records an event for p. A repeat increments the count when coalesce
// is set and is dropped otherwise.
func (b *eventBuffer) add(p Path, coalesce bool) {
	key := p.String()
	if ev, ok := b.events[key]; ok {
		if coalesce {
			ev.Count++
		}
		return
	}
	b.order = append(b.order, key)
	b.events[key] = &WatchEvent{Kind: b.kind, Context: p, Count: 1}
}

func (b *eventBuffer) drain(out []WatchEvent) []WatchEvent {
	for _, key := range b.order {
		out = append(out, *b.events[key])
	}
	b.order = nil
	clear(b.events)
	return out
}
