package blob

import (
	"context"
	"sync"
	"time"
)

type memObject struct {
	data    []byte
	modTime time.Time
}

// MemStore - хранилище в памяти для тестов и локального запуска
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

func (s *MemStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{data: data, modTime: time.Now()}
	return nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemStore) List(ctx context.Context) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects := make([]ObjectInfo, 0, len(s.objects))
	for k, obj := range s.objects {
		objects = append(objects, ObjectInfo{Key: k, ModTime: obj.modTime})
	}
	return objects, nil
}

func (s *MemStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, ok
}

// Backdate сдвигает время записи объекта в прошлое; нужен тестам очистки
func (s *MemStore) Backdate(key string, age time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj, ok := s.objects[key]; ok {
		obj.modTime = obj.modTime.Add(-age)
		s.objects[key] = obj
	}
}
