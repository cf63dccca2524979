package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/cwbudde/algo-saturator/dsp/params"
)

// applyParams decodes a JSON object of parameter keys and writes every
// recognised entry into store. Numbers set continuous parameters, booleans
// and numbers set flags. Unknown keys and bad values are reported together
// after the valid entries have been applied.
func applyParams(store *params.Store, data []byte) ([]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parameter file: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	var (
		applied []string
		errs    []error
	)

	for _, key := range keys {
		var v float64

		switch x := raw[key].(type) {
		case float64:
			v = x
		case bool:
			if x {
				v = 1
			}
		default:
			errs = append(errs, fmt.Errorf("parameter %q: unsupported value %v", key, x))
			continue
		}

		if err := store.SetByKey(key, v); err != nil {
			errs = append(errs, err)
			continue
		}

		applied = append(applied, key)
	}

	return applied, errors.Join(errs...)
}

// paramWatcher reloads a parameter file whenever it changes. The containing
// directory is watched so editors that replace the file are handled.
type paramWatcher struct {
	path   string
	store  *params.Store
	logger *slog.Logger
	w      *fsnotify.Watcher
}

func newParamWatcher(path string, store *params.Store, logger *slog.Logger) (*paramWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	pw := &paramWatcher{path: abs, store: store, logger: logger, w: w}
	pw.reload()

	return pw, nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (pw *paramWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-pw.w.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != pw.path {
				continue
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pw.reload()
			}
		case err, ok := <-pw.w.Errors:
			if !ok {
				return
			}

			pw.logger.Warn("parameter watch", "err", err)
		}
	}
}

func (pw *paramWatcher) reload() {
	data, err := os.ReadFile(pw.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			pw.logger.Warn("parameter file", "path", pw.path, "err", err)
		}

		return
	}

	// Editors may truncate before writing; the follow-up event carries the
	// content.
	if len(data) == 0 {
		return
	}

	applied, err := applyParams(pw.store, data)
	if err != nil {
		pw.logger.Warn("parameter file", "path", pw.path, "err", err)
	}

	if len(applied) > 0 {
		pw.logger.Info("parameters", "keys", applied, "drive_db", pw.store.Load(params.Drive),
			"tone_pct", pw.store.Load(params.Tone), "mix_pct", pw.store.Load(params.Mix),
			"output_db", pw.store.Load(params.Output), "bypass", pw.store.Bypass(), "pre", pw.store.Pre())
	}
}

func (pw *paramWatcher) Close() error {
	return pw.w.Close()
}
