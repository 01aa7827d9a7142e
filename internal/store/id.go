package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entryEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	entryEntropyMu sync.Mutex
)

// NewEntryID returns a sortable unique ID for a ledger journal entry.
func NewEntryID() string {
	entryEntropyMu.Lock()
	defer entryEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entryEntropy).String()
}
