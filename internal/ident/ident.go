// Package ident generates prefixed ULID identifiers for all entities.
package ident

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	timeNow = func() time.Time { return time.Now().UTC() }

	// The monotonic entropy source guarantees uniqueness even for rapid
	// successive calls within the same millisecond, which a wall-clock or
	// count-based scheme cannot.
	mu      sync.Mutex
	entropy = ulid.Monotonic(randReader{}, 0)
)

// New returns a fresh identifier of the form <prefix><ULID>.
func New(prefix string) string {
	mu.Lock()
	defer mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(timeNow()), entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%s%d", prefix, timeNow().UnixNano())
	}
	return prefix + strings.ToUpper(id.String())
}
