package report

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// CopyNoticeDuration is how long the "copied" confirmation stays up
const CopyNoticeDuration = 2 * time.Second

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the OS clipboard
type SystemClipboard struct{}

// WriteAll copies text
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// CopyNotice is the transient "copied" flag. Every Copy restarts the
// window; only the expiry for the latest Copy clears the flag.
type CopyNotice struct {
	mu     sync.Mutex
	active bool
	gen    uint64
}

// Copy raises the flag and returns the generation to expire later
func (n *CopyNotice) Copy() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = true
	n.gen++
	return n.gen
}

// Expire clears the flag if gen is still the latest copy
func (n *CopyNotice) Expire(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return false
	}
	n.active = false
	return true
}

// Active reports whether the flag is up
func (n *CopyNotice) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}
