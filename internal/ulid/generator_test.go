package ulid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID_Concurrent(t *testing.T) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{})
	)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := GenerateID()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 100)
}

func TestMockGenerator(t *testing.T) {
	MockGenerator("01HQ2Y4G1RS7YVNFJ0WDM9QEXB")
	assert.Equal(t, "01HQ2Y4G1RS7YVNFJ0WDM9QEXB", GenerateID())

	ResetGenerator()
	assert.NotEqual(t, "01HQ2Y4G1RS7YVNFJ0WDM9QEXB", GenerateID())
}
