package repository

import (
	"fmt"
	"sync"

	"github.com/replicate/tensorbackend/pkg/errors"
	"github.com/replicate/tensorbackend/pkg/host"
)

type modelKey struct {
	name    string
	version uint64
}

// Server answers batch-property queries for models that finished loading.
type Server struct {
	mu     sync.RWMutex
	loaded map[modelKey]host.BatchFlags
}

func NewServer() *Server {
	return &Server{loaded: map[modelKey]host.BatchFlags{}}
}

func (s *Server) register(name string, version uint64, flags host.BatchFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[modelKey{name, version}] = flags
}

func (s *Server) ModelBatchProperties(name string, version uint64) (host.BatchFlags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flags, ok := s.loaded[modelKey{name, version}]
	if !ok {
		return 0, fmt.Errorf("model '%s' version %d: %w", name, version, errors.ErrModelNotLoaded)
	}
	return flags, nil
}

// Backend hands every model the same memory manager.
type Backend struct {
	Manager host.MemoryManager
}

func (b *Backend) MemoryManager() (host.MemoryManager, error) {
	return b.Manager, nil
}

// MemoryManager identifies the device memory is allocated on.
type MemoryManager struct {
	Device string
}
