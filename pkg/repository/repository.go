// Package repository serves models out of a model repository directory.
//
// A repository holds one directory per model, containing the model
// configuration and one numeric directory per version:
//
//	<root>/
//	  resnet/
//	    config.yaml
//	    1/
//	    2/
package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/mitchellh/go-homedir"

	"github.com/replicate/tensorbackend/pkg/errors"
	"github.com/replicate/tensorbackend/pkg/host"
	"github.com/replicate/tensorbackend/pkg/modelconfig"
	"github.com/replicate/tensorbackend/pkg/util/files"
)

// ConfigFilenames are tried in order.
var ConfigFilenames = []string{"config.json", "config.yaml", "config.yml"}

// Model is a host.Model backed by a repository directory.
type Model struct {
	name       string
	version    uint64
	dir        string
	configPath string
	configJSON []byte

	server  *Server
	backend host.Backend
}

// Option configures Open.
type Option func(*Model)

// WithServer shares a server between models; by default each model gets its own.
func WithServer(server *Server) Option {
	return func(m *Model) {
		m.server = server
	}
}

// WithBackend overrides the backend handle handed to the model.
func WithBackend(backend host.Backend) Option {
	return func(m *Model) {
		m.backend = backend
	}
}

// Open locates model name under root. Version 0 selects the highest version.
func Open(root string, name string, version uint64, opts ...Option) (*Model, error) {
	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("failed to expand repository path %s: %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(abs, name)
	isDir, err := files.IsDir(dir)
	if err != nil {
		return nil, fmt.Errorf("model %s not found in repository %s: %w", name, abs, err)
	}
	if !isDir {
		return nil, fmt.Errorf("model %s in repository %s is not a directory", name, abs)
	}

	versions, err := Versions(dir)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("model %s has no version directories in %s", name, dir)
	}
	if version == 0 {
		version = versions[len(versions)-1]
	} else if !slices.Contains(versions, version) {
		return nil, fmt.Errorf("model %s has no version %d (available: %v)", name, version, versions)
	}

	configPath, err := findConfig(dir)
	if err != nil {
		return nil, err
	}
	configJSON, err := modelconfig.ToJSON(configPath)
	if err != nil {
		return nil, err
	}

	m := &Model{
		name:       name,
		version:    version,
		dir:        dir,
		configPath: configPath,
		configJSON: configJSON,
		backend:    &Backend{Manager: &MemoryManager{Device: "cpu"}},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.server == nil {
		m.server = NewServer()
	}
	return m, nil
}

// Versions lists the numeric version directories of a model directory, ascending.
func Versions(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var versions []uint64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := strconv.ParseUint(e.Name(), 10, 64)
		if err != nil || v == 0 {
			continue
		}
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions, nil
}

func findConfig(dir string) (string, error) {
	path, err := files.FirstRegular(dir, ConfigFilenames...)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.ConfigNotFound(fmt.Sprintf("no model configuration (%v) found in %s", ConfigFilenames, dir))
	}
	return path, nil
}

// MarkLoaded tells the server the model finished loading, which makes its batch
// properties available. Models with max_batch_size > 0 batch along the first dimension.
func (m *Model) MarkLoaded() error {
	doc, err := modelconfig.Parse(m.configJSON)
	if err != nil {
		return err
	}
	mbs, err := doc.IntOr("max_batch_size", 0)
	if err != nil {
		return err
	}
	flags := host.BatchUnknown
	if mbs > 0 {
		flags = host.BatchFirstDim
	}
	m.server.register(m.name, m.version, flags)
	return nil
}

// ConfigPath is the file the configuration was read from.
func (m *Model) ConfigPath() string {
	return m.configPath
}

func (m *Model) Config(version uint32) ([]byte, error) {
	if version != host.ConfigVersion {
		return nil, fmt.Errorf("unsupported model configuration version %d", version)
	}
	return m.configJSON, nil
}

func (m *Model) Name() (string, error) {
	return m.name, nil
}

func (m *Model) Version() (uint64, error) {
	return m.version, nil
}

func (m *Model) Repository() (host.ArtifactType, string, error) {
	return host.ArtifactFilesystem, m.dir, nil
}

func (m *Model) Server() (host.Server, error) {
	return m.server, nil
}

func (m *Model) Backend() (host.Backend, error) {
	return m.backend, nil
}
