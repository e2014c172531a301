package core

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// TemplateWatcher calls onChange once per burst of .html edits in a
// directory. Editors tend to emit several events per save.
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	log      *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	done      chan struct{}
	closeOnce sync.Once
}

func WatchTemplates(dir string, onChange func(), log *zap.Logger) (*TemplateWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	tw := &TemplateWatcher{
		watcher:  fw,
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}
	go tw.loop()
	return tw, nil
}

func (tw *TemplateWatcher) loop() {
	for {
		select {
		case <-tw.done:
			return
		case ev, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".html" {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				tw.log.Debug("template changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				tw.schedule()
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.log.Warn("template watcher error", zap.Error(err))
		}
	}
}

func (tw *TemplateWatcher) schedule() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.timer = time.AfterFunc(watchDebounce, func() {
		select {
		case <-tw.done:
			return
		default:
		}
		tw.onChange()
	})
}

func (tw *TemplateWatcher) Close() error {
	var err error
	tw.closeOnce.Do(func() {
		close(tw.done)
		tw.mu.Lock()
		if tw.timer != nil {
			tw.timer.Stop()
		}
		tw.mu.Unlock()
		err = tw.watcher.Close()
	})
	return err
}
