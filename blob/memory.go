package blob

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory keeps uploaded bytes in a map, for tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	next    int
}

var _ Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Store(_ context.Context, r io.Reader, filename, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("mem://%d/%s", m.next, filename)
	m.objects[ref] = data
	return ref, nil
}

// Object returns the stored bytes for a reference, for assertions.
func (m *Memory) Object(ref string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[ref]
	return data, ok
}
