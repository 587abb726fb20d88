package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and invokes onChange with the
// freshly parsed Config after every successful reload. It blocks until ctx
// is cancelled.
//
// A reload that fails to parse or validate is logged and dropped; the
// previous config stays active and onChange is not called. Atomic-save
// editors replace the file by rename, so rename and create events trigger a
// reload too, and the watch is re-registered afterwards in case the inode
// changed.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	slog.Info("config: watching for changes", "path", path)

	reload := func() {
		cfg, err := Load(path)
		if err != nil {
			slog.Error("config: reload failed, keeping previous config",
				"path", path, "err", err)
			return
		}
		slog.Info("config: reloaded", "path", path)
		onChange(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case event.Has(fsnotify.Write):
				reload()
			case event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				// The inode may have been replaced by an atomic save.
				_ = watcher.Add(path)
				reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
