package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Jashan32/talawa-api/internal/objectstore"
)

// MemObjectStore is an in-memory objectstore.Store for tests.
type MemObjectStore struct {
	mu      sync.Mutex
	objects map[string]memObject

	// PutErr, when set, makes every Put fail with it.
	PutErr error
}

type memObject struct {
	data        []byte
	contentType string
}

// NewMemObjectStore returns an empty in-memory store.
func NewMemObjectStore() *MemObjectStore {
	return &MemObjectStore{objects: make(map[string]memObject)}
}

// Put stores the object in memory.
func (s *MemObjectStore) Put(_ context.Context, name string, r io.Reader, _ int64, contentType string) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = memObject{data: data, contentType: contentType}
	return nil
}

// Get opens a stored object.
func (s *MemObjectStore) Get(_ context.Context, name string) (io.ReadCloser, *objectstore.ObjectInfo, error) {
	s.mu.Lock()
	obj, ok := s.objects[name]
	s.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("object %q: %w", name, objectstore.ErrNotFound)
	}
	info := &objectstore.ObjectInfo{
		Name:        name,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

// Len reports how many objects the store holds.
func (s *MemObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Has reports whether an object exists under the name.
func (s *MemObjectStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok
}
