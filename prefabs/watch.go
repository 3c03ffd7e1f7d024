package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 100 * time.Millisecond

// Change is one edited prefab file.
type Change struct {
	File   string // base name, e.g. "effects.yaml"
	Script bool
}

// classify keeps writes, creates and renames of prefab YAML and tengo scripts.
func classify(ev fsnotify.Event) (Change, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return Change{}, false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml":
		return Change{File: filepath.Base(ev.Name)}, true
	case ".tengo":
		return Change{File: filepath.Base(ev.Name), Script: true}, true
	}
	return Change{}, false
}

// debouncer drops repeat reports of a path inside the window. Editors often
// write a file several times per save.
type debouncer struct {
	window time.Duration
	now    func() time.Time
	last   map[string]time.Time
}

func newDebouncer(window time.Duration, now func() time.Time) *debouncer {
	return &debouncer{window: window, now: now, last: make(map[string]time.Time)}
}

func (d *debouncer) allow(path string) bool {
	t := d.now()
	if prev, ok := d.last[path]; ok && t.Sub(prev) < d.window {
		return false
	}
	d.last[path] = t
	return true
}

// Watcher reports prefab edits under a set of directories. The changes channel
// closes once the watcher stops.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *debouncer
	changes  chan Change
	errs     chan error
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:       fs,
		debounce: newDebouncer(debounceWindow, time.Now),
		changes:  make(chan Change, 16),
		errs:     make(chan error, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers edits as they are seen.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Errors delivers the latest watch error; older unread errors are dropped.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and waits for its goroutine. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.stopped
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.stopped)
	defer close(w.errs)
	defer close(w.changes)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok || !w.handle(ev) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.stop:
			return
		}
	}
}

// handle forwards a relevant event. It reports false once the watcher is
// stopping.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	c, ok := classify(ev)
	if !ok || !w.debounce.allow(ev.Name) {
		return true
	}
	select {
	case w.changes <- c:
		return true
	case <-w.stop:
		return false
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

// Drain returns the changes already queued without blocking.
func (w *Watcher) Drain() []Change {
	var out []Change
	for {
		select {
		case c, ok := <-w.changes:
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}
