// Package watch 监听配置目录，YAML 文件变化时发出通知（用于热重载）
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval 同一文件两次事件的最小间隔
// 编辑器保存时通常会连续产生多次写事件
const debounceInterval = 100 * time.Millisecond

// Watcher 配置文件监听器
type Watcher struct {
	watcher *fsnotify.Watcher
	// Events 发生变化的配置文件路径
	Events chan string
	// Errors 底层监听错误
	Errors  chan error
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// NewWatcher 监听指定目录
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close 停止监听并关闭通道，可重复调用
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll 非阻塞地取出一个变化事件
// 供帧循环在 Update 中调用
func (w *Watcher) Poll() (string, bool) {
	select {
	case path, ok := <-w.Events:
		return path, ok
	default:
		return "", false
	}
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsConfigFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounceInterval {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsConfigFile 判断路径是否为 YAML 配置文件
func IsConfigFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
