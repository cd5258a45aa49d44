package scene

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind says which half of a scene changed on disk: the yaml scene file
// itself, or one of its collision scripts. Hosts use the distinction to pick
// between a full world rebuild and just re-binding scripts.
type EventKind int

const (
	SceneChanged EventKind = iota
	ScriptChanged
)

// Event is one debounced file change.
type Event struct {
	Kind EventKind
	Path string
}

// Watcher reports edits to scene files and collision scripts so the host can
// update a running world without restarting. Changes are coalesced per path
// and emitted only after the file has been quiet for the debounce window, so
// an editor's write-then-rename save never triggers a reload of a
// half-written file.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Event
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

const watchDebounce = 100 * time.Millisecond

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		watcher: fw,
		Events:  make(chan Event, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Events and Errors are closed by the run goroutine
// once it has drained, so receivers see a normal channel close and senders
// never race it.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := make(map[string]EventKind)
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classifyPath(event.Name)
			if !ok {
				continue
			}
			// Trailing-edge debounce: restart the quiet window on every
			// write so a burst of saves emits one event per path.
			pending[event.Name] = kind
			timer.Reset(watchDebounce)
		case <-timer.C:
			for path, kind := range pending {
				delete(pending, path)
				select {
				case w.Events <- Event{Kind: kind, Path: path}:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

// classifyPath maps a changed file to the event kind it produces. Files that
// are neither scenes nor scripts produce nothing.
func classifyPath(path string) (EventKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SceneChanged, true
	case ".tengo":
		return ScriptChanged, true
	}
	return 0, false
}
