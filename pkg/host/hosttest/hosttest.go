// Package hosttest provides an in-memory host for tests.
package hosttest

import (
	"sync"
	"sync/atomic"

	"github.com/replicate/tensorbackend/pkg/host"
)

// Model is a configurable host.Model. Zero-value error fields mean success.
type Model struct {
	ConfigJSON   []byte
	ModelName    string
	ModelVersion uint64
	ArtifactType host.ArtifactType
	RepoPath     string

	ConfigErr     error
	NameErr       error
	VersionErr    error
	RepositoryErr error
	ServerErr     error
	BackendErr    error

	FakeServer  *Server
	FakeBackend *Backend

	configCalls atomic.Int32
}

// NewModel returns a filesystem-backed model with a server and backend attached.
func NewModel(name string, version uint64, config string) *Model {
	return &Model{
		ConfigJSON:   []byte(config),
		ModelName:    name,
		ModelVersion: version,
		ArtifactType: host.ArtifactFilesystem,
		RepoPath:     "/models/" + name,
		FakeServer:   &Server{Flags: host.BatchFirstDim},
		FakeBackend:  &Backend{Manager: &MemoryManager{}},
	}
}

func (m *Model) Config(version uint32) ([]byte, error) {
	m.configCalls.Add(1)
	if m.ConfigErr != nil {
		return nil, m.ConfigErr
	}
	return m.ConfigJSON, nil
}

// ConfigCalls returns how many times Config was called.
func (m *Model) ConfigCalls() int {
	return int(m.configCalls.Load())
}

func (m *Model) Name() (string, error) {
	return m.ModelName, m.NameErr
}

func (m *Model) Version() (uint64, error) {
	return m.ModelVersion, m.VersionErr
}

func (m *Model) Repository() (host.ArtifactType, string, error) {
	return m.ArtifactType, m.RepoPath, m.RepositoryErr
}

func (m *Model) Server() (host.Server, error) {
	if m.ServerErr != nil {
		return nil, m.ServerErr
	}
	return m.FakeServer, nil
}

func (m *Model) Backend() (host.Backend, error) {
	if m.BackendErr != nil {
		return nil, m.BackendErr
	}
	return m.FakeBackend, nil
}

// Server counts batch-property queries. Set Errs to make the first len(Errs)
// queries fail in order.
type Server struct {
	Flags host.BatchFlags
	Errs  []error
	// Gate, when set, blocks every query until it is closed.
	Gate chan struct{}

	mu      sync.Mutex
	queries []string
	calls   atomic.Int32
}

func (s *Server) ModelBatchProperties(name string, version uint64) (host.BatchFlags, error) {
	n := int(s.calls.Add(1))
	if s.Gate != nil {
		<-s.Gate
	}

	s.mu.Lock()
	s.queries = append(s.queries, name)
	s.mu.Unlock()

	if n <= len(s.Errs) && s.Errs[n-1] != nil {
		return 0, s.Errs[n-1]
	}
	return s.Flags, nil
}

// Calls returns how many batch-property queries were issued.
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

// Queries returns the model names queried so far.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

type Backend struct {
	Manager host.MemoryManager
	Err     error
}

func (b *Backend) MemoryManager() (host.MemoryManager, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	return b.Manager, nil
}

// MemoryManager is a placeholder handle.
type MemoryManager struct {
	ID string
}
