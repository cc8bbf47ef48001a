// Package host declares the boundary between a backend and the serving process
// that loads it. The serving process owns every handle declared here; a backend
// stores them and never controls their lifetime.
package host

import "fmt"

// ConfigVersion is the configuration schema version backends request.
const ConfigVersion uint32 = 1

// ArtifactType identifies how a model repository stores its artifacts.
type ArtifactType int

const (
	ArtifactFilesystem ArtifactType = iota
	ArtifactBackendDirectory
)

func (a ArtifactType) String() string {
	switch a {
	case ArtifactFilesystem:
		return "filesystem"
	case ArtifactBackendDirectory:
		return "backend_directory"
	default:
		return fmt.Sprintf("artifact_type(%d)", int(a))
	}
}

// BatchFlags is the bitmask returned by Server.ModelBatchProperties.
type BatchFlags uint32

const (
	BatchUnknown  BatchFlags = 1
	BatchFirstDim BatchFlags = 2
)

func (f BatchFlags) String() string {
	switch {
	case f&BatchFirstDim != 0:
		return "first_dim"
	case f&BatchUnknown != 0:
		return "unknown"
	default:
		return "none"
	}
}

// Model is the serving process's handle for one loaded model version.
type Model interface {
	// Config returns the serialized (JSON) model configuration in the given schema version.
	Config(version uint32) ([]byte, error)
	Name() (string, error)
	Version() (uint64, error)
	// Repository returns where the model's artifacts live.
	Repository() (ArtifactType, string, error)
	Server() (Server, error)
	Backend() (Backend, error)
}

// Server is the serving process that owns the model.
type Server interface {
	// ModelBatchProperties is only valid once the model has finished loading.
	ModelBatchProperties(name string, version uint64) (BatchFlags, error)
}

// Backend is the backend the model was loaded into.
type Backend interface {
	MemoryManager() (MemoryManager, error)
}

// MemoryManager is opaque to configuration handling; it is passed through to
// the execution path.
type MemoryManager interface{}
