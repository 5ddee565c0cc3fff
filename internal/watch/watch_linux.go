// Completion: 100% - Platform-specific module complete
//go:build linux

package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Watcher uses inotify
type Watcher struct {
	fd       int
	mu       sync.Mutex
	watchMap map[int]string
	events   *debouncer
	done     chan struct{}
	once     sync.Once
}

// New creates a watcher that calls onChange once a watched file settles
func New(onChange func(string)) (*Watcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}

	return &Watcher{
		fd:       fd,
		watchMap: make(map[int]string),
		events:   newDebouncer(onChange),
		done:     make(chan struct{}),
	}, nil
}

// Add starts watching path
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	wd, err := unix.InotifyAddWatch(w.fd, absPath, unix.IN_MODIFY|unix.IN_CLOSE_WRITE)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	w.mu.Lock()
	w.watchMap[wd] = absPath
	w.mu.Unlock()
	return nil
}

// Watch delivers events until Close is called
func (w *Watcher) Watch() {
	buf := make([]byte, (unix.SizeofInotifyEvent+unix.NAME_MAX+1)*10)

	for {
		select {
		case <-w.done:
			return
		default:
		}

		n, err := unix.Read(w.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return
		}

		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)

			if event.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) == 0 {
				continue
			}
			w.mu.Lock()
			path := w.watchMap[int(event.Wd)]
			w.mu.Unlock()
			if path != "" {
				w.events.trigger(path)
			}
		}
	}
}

// Close stops Watch and releases the inotify descriptor
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.events.stop()
		err = unix.Close(w.fd)
	})
	return err
}
