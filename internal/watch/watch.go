// Package watch imports recordings dropped into an inbox directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a file must stay unmodified before it is
// imported.
const DefaultSettle = 2 * time.Second

// Importer imports one file.
type Importer interface {
	ImportFile(ctx context.Context, path string) error
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(ctx context.Context, path string) error

// ImportFile calls f.
func (f ImporterFunc) ImportFile(ctx context.Context, path string) error { return f(ctx, path) }

// Accepts reports whether path has a recording extension.
func Accepts(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx", ".fit":
		return true
	}
	return false
}

// Watcher imports every recording created in a directory once it has
// settled. Imports run one at a time.
type Watcher struct {
	dir      string
	settle   time.Duration
	importer Importer
	fsw      *fsnotify.Watcher
	log      *zap.Logger
}

// New starts watching dir. Events are only consumed once Run is called.
func New(dir string, importer Importer, settle time.Duration, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{dir: dir, settle: settle, importer: importer, fsw: fsw, log: log}, nil
}

// Run dispatches file events until ctx is done, then releases the watcher.
// Files still settling at that point are not imported.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.log.Info("watching for recordings", zap.String("dir", w.dir))

	ready := make(chan string)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if (!event.Has(fsnotify.Create) && !event.Has(fsnotify.Write)) || !Accepts(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				// A timer that already fired has its import on the way.
				if t.Stop() {
					t.Reset(w.settle)
				}
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(pending, name)
			if err := w.importer.ImportFile(ctx, name); err != nil {
				w.log.Warn("import failed", zap.String("file", name), zap.Error(err))
				continue
			}
			w.log.Info("imported", zap.String("file", name))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
