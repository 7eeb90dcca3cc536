package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"roundtrip/internal/errors"
)

// Watch re-checks files under root as they change. Changes are collected
// until none arrive for the debounce interval, then the changed files are
// checked and fn receives their report. Watch blocks until ctx is done.
func (r *Runner) Watch(ctx context.Context, root string, fn func(*Report)) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Harness("cannot watch corpus", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Harness("failed to create watcher", err)
	}
	defer watcher.Close()

	base := root
	if !info.IsDir() {
		base = filepath.Dir(root)
	}
	if err := r.addTree(watcher, base); err != nil {
		return errors.Harness("cannot watch corpus", err)
	}
	log.Infof("watching %s", root)

	pending := map[string]struct{}{}
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := r.addTree(watcher, event.Name); err != nil {
						log.Warningf("cannot watch %s: %s", event.Name, err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !r.watched(root, info.IsDir(), event.Name) {
				continue
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			pending[event.Name] = struct{}{}
			settle = time.After(r.opts.Debounce)

		case <-settle:
			settle = nil
			files := existing(pending)
			pending = map[string]struct{}{}
			if len(files) == 0 {
				continue
			}
			fn(r.RunFiles(ctx, root, files))

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Errorf("watch error: %s", err)
		}
	}
}

func (r *Runner) watched(root string, rootIsDir bool, path string) bool {
	if !rootIsDir {
		return filepath.Clean(path) == filepath.Clean(root)
	}
	return selected(root, path, r.opts.Include, r.opts.Exclude)
}

func (r *Runner) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func existing(paths map[string]struct{}) []string {
	var out []string
	for p := range paths {
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
