// Package ulid generates the identifiers of editing sessions.
package ulid

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu        sync.Mutex
	entropy   io.Reader
	generator = defaultGenerator
)

func defaultEntropy() io.Reader {
	mu.Lock()
	defer mu.Unlock()

	if entropy == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rng, 0),
		}
	}
	return entropy
}

func defaultGenerator() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), defaultEntropy()).String()
}

func GenerateID() string {
	return generator()
}

// MockGenerator makes GenerateID return value until ResetGenerator is called.
func MockGenerator(value string) {
	generator = func() string { return value }
}

func ResetGenerator() {
	generator = defaultGenerator
}
