package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const balanceEntryPrefix = "be_"

var (
	ulidEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	ulidEntropyMu sync.Mutex
)

// NewEntryID returns a sortable balance entry id.
func NewEntryID() string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()
	return balanceEntryPrefix + ulid.MustNew(ulid.Now(), ulidEntropy).String()
}
