package prompt

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ErrEmptyPrompt is returned when a prompt file holds only whitespace.
var ErrEmptyPrompt = errors.New("prompt file is empty")

// LoadBasePrompt reads a base prompt from path, trimming surrounding whitespace.
func LoadBasePrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyPrompt, path)
	}
	return text, nil
}

// Watcher keeps a Builder's base prompt in sync with a file on disk.
// A reload that fails keeps the previous prompt.
type Watcher struct {
	path    string
	builder *Builder
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchFile loads path into b and reloads it whenever the file changes.
// The parent directory is watched so editors that replace the file are seen.
func WatchFile(path string, b *Builder, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve prompt path: %w", err)
	}

	text, err := LoadBasePrompt(abs)
	if err != nil {
		return nil, err
	}
	b.SetBasePrompt(text)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch prompt directory: %w", err)
	}

	w := &Watcher{
		path:    abs,
		builder: b,
		logger:  logger.With("component", "prompt.watcher"),
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.loop()

	w.logger.Info("watching base prompt file", "path", abs)
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	text, err := LoadBasePrompt(w.path)
	if err != nil {
		// Editors may truncate before writing; the next event brings the content.
		w.logger.Warn("keeping previous base prompt", "error", err)
		return
	}
	if text == w.builder.BasePrompt() {
		return
	}
	w.builder.SetBasePrompt(text)
	w.logger.Info("base prompt reloaded", "bytes", len(text))
}
