package bs

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// #region types
// Reload reports one attempt to reload the table file.
type Reload struct {
	File  string
	First int
	Last  int
	Err   error // non-nil when the file was rejected and the previous table kept
}

// Watcher reloads a table file into a Converter whenever it changes.
type Watcher struct {
	File    string
	Reloads <-chan Reload // Read-only external channel

	reloads   chan Reload
	done      chan struct{}
	stopOnce  sync.Once
	watcher   *fsnotify.Watcher
	converter *Converter
}
// #endregion types

// #region lifecycle
// NewWatcher creates a watcher for file feeding conv.
func NewWatcher(file string, conv *Converter) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan Reload, 16)
	return &Watcher{
		File:      abs,
		Reloads:   ch,
		reloads:   ch,
		done:      make(chan struct{}),
		watcher:   fw,
		converter: conv,
	}, nil
}

// Start watches the file's directory; editors often replace files by rename.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel. Later calls do nothing.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
		<-w.done
		close(w.reloads)
	})
}
// #endregion lifecycle

// #region loop
func (w *Watcher) loop() {
	defer close(w.done)

	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.reload()
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				w.reload()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	t, err := LoadTable(w.File)
	r := Reload{File: w.File, Err: err}
	if err == nil {
		w.converter.SetTable(t)
		r.First, r.Last = t.First, t.Last
	}
	select {
	case w.reloads <- r:
	default:
	}
}
// #endregion loop
