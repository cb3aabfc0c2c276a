package contents

import "sync"

// lease counts the calls currently reading a buffer so that Close can defer
// dropping the storage until they are done.
type lease struct {
	mu       sync.Mutex
	data     []byte
	refs     int
	released bool
}

// acquire pins the buffer. The returned func must be called exactly once.
func (l *lease) acquire() ([]byte, func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return nil, nil, ErrReleased
	}
	l.refs++
	return l.data, l.release, nil
}

func (l *lease) release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refs--
	if l.refs == 0 && l.released {
		l.data = nil
	}
}

func (l *lease) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.released = true
	if l.refs == 0 {
		l.data = nil
	}
}

// active returns the number of outstanding leases.
func (l *lease) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refs
}
