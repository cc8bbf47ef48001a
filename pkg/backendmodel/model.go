// Package backendmodel holds a backend's view of one loaded model: its parsed
// configuration and the lookup tables the execution path consults on every
// request.
//
// A Model is built once when the serving process loads the model and is
// read-only afterwards, so it can be shared by every execution goroutine
// without locking. The only lazily computed property is first-dimension
// batching support, which the serving process can only answer after loading
// has finished.
package backendmodel

import (
	"go.uber.org/zap"

	"github.com/replicate/tensorbackend/internal/logging"
	"github.com/replicate/tensorbackend/pkg/batching"
	"github.com/replicate/tensorbackend/pkg/errors"
	"github.com/replicate/tensorbackend/pkg/host"
	"github.com/replicate/tensorbackend/pkg/modelconfig"
	"github.com/replicate/tensorbackend/pkg/util/slicesext"
)

// Model is the configuration index for one loaded model version.
type Model struct {
	hostModel     host.Model
	server        host.Server
	memoryManager host.MemoryManager

	config *modelconfig.Value

	name               string
	version            uint64
	repositoryPath     string
	maxBatchSize       int
	enablePinnedInput  bool
	enablePinnedOutput bool

	raggedInputs   map[string]struct{}
	optionalInputs map[string]struct{}

	batchInputs       []*batching.BatchInput
	batchOutputs      []*batching.BatchOutput
	batchOutputByName map[string]*batching.BatchOutput

	firstDimBatching batchingCell

	logger *logging.Logger
}

// Option configures New.
type Option func(*options)

type options struct {
	logger         *logging.Logger
	validateSchema bool
}

// WithLogger sets the logger used during construction and batching queries.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSchemaValidation checks the configuration against the model configuration
// schema before reading it.
func WithSchemaValidation() Option {
	return func(o *options) {
		o.validateSchema = true
	}
}

// New builds the index for hostModel. allowOptional reports whether this backend
// accepts inputs marked optional; when it doesn't, such an input fails construction.
//
// Either a fully populated Model or an error is returned.
func New(hostModel host.Model, allowOptional bool, opts ...Option) (*Model, error) {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	m := &Model{
		hostModel:         hostModel,
		raggedInputs:      map[string]struct{}{},
		optionalInputs:    map[string]struct{}{},
		batchOutputByName: map[string]*batching.BatchOutput{},
	}

	if err := m.readConfig(o.validateSchema); err != nil {
		return nil, err
	}
	if err := m.readIdentity(); err != nil {
		return nil, err
	}
	m.logger = o.logger.ForModel(m.name, m.version)

	mbs, err := m.config.IntOr("max_batch_size", 0)
	if err != nil {
		return nil, errors.MalformedConfiguration(err)
	}
	if mbs < 0 {
		return nil, errors.MalformedConfiguration(&modelconfig.ValidationError{
			Field:   "max_batch_size",
			Message: "must not be negative",
		})
	}
	m.maxBatchSize = int(mbs)

	if err := m.readRepository(); err != nil {
		return nil, err
	}
	if err := m.readHandles(); err != nil {
		return nil, err
	}
	if err := m.readPinnedMemory(); err != nil {
		return nil, err
	}
	if err := m.readBatchDescriptors(); err != nil {
		return nil, err
	}
	if err := m.readInputs(allowOptional); err != nil {
		return nil, err
	}

	m.logger.Debug("model configuration loaded",
		zap.String("repository_path", m.repositoryPath),
		zap.Int("max_batch_size", m.maxBatchSize),
		zap.Bool("pinned_input", m.enablePinnedInput),
		zap.Bool("pinned_output", m.enablePinnedOutput),
		zap.Strings("ragged_inputs", m.RaggedInputs()),
		zap.Strings("optional_inputs", m.OptionalInputs()),
		zap.Int("batch_inputs", len(m.batchInputs)),
		zap.Int("batch_outputs", len(m.batchOutputs)),
	)
	return m, nil
}

func (m *Model) readConfig(validateSchema bool) error {
	data, err := m.hostModel.Config(host.ConfigVersion)
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	doc, err := modelconfig.Parse(data)
	if err != nil {
		return errors.MalformedConfiguration(err)
	}
	if validateSchema {
		if err := modelconfig.Validate(doc); err != nil {
			return errors.MalformedConfiguration(err)
		}
	}
	m.config = doc
	return nil
}

// readIdentity takes name and version from the host, never from the document.
func (m *Model) readIdentity() error {
	name, err := m.hostModel.Name()
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	version, err := m.hostModel.Version()
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	m.name = name
	m.version = version
	return nil
}

func (m *Model) readRepository() error {
	kind, path, err := m.hostModel.Repository()
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	if kind != host.ArtifactFilesystem {
		return errors.UnsupportedRepository(m.name)
	}
	m.repositoryPath = path
	return nil
}

func (m *Model) readHandles() error {
	server, err := m.hostModel.Server()
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	backend, err := m.hostModel.Backend()
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	memoryManager, err := backend.MemoryManager()
	if err != nil {
		return errors.HostQueryFailed(err)
	}
	m.server = server
	m.memoryManager = memoryManager
	return nil
}

func (m *Model) readPinnedMemory() error {
	optimization, ok := m.config.Lookup("optimization")
	if !ok {
		return nil
	}
	if pinned, ok := optimization.Lookup("input_pinned_memory"); ok {
		enable, err := pinned.GetBool("enable")
		if err != nil {
			return errors.MalformedConfiguration(err)
		}
		m.enablePinnedInput = enable
	}
	if pinned, ok := optimization.Lookup("output_pinned_memory"); ok {
		enable, err := pinned.GetBool("enable")
		if err != nil {
			return errors.MalformedConfiguration(err)
		}
		m.enablePinnedOutput = enable
	}
	return nil
}

func (m *Model) readBatchDescriptors() error {
	batchInputs, err := batching.ParseBatchInputs(m.config)
	if err != nil {
		return errors.MalformedConfiguration(err)
	}
	batchOutputs, err := batching.ParseBatchOutputs(m.config)
	if err != nil {
		return errors.MalformedConfiguration(err)
	}

	// Each target name maps to exactly one descriptor.
	for _, bo := range batchOutputs {
		for _, name := range bo.TargetNames {
			if _, dup := m.batchOutputByName[name]; dup {
				return errors.MalformedConfiguration(&modelconfig.ValidationError{
					Field:   "batch_output.target_name",
					Value:   name,
					Message: "output is produced by more than one batch output",
				})
			}
			m.batchOutputByName[name] = bo
		}
	}

	m.batchInputs = batchInputs
	m.batchOutputs = batchOutputs
	return nil
}

func (m *Model) readInputs(allowOptional bool) error {
	inputs, err := m.config.GetArray("input")
	if err != nil {
		return errors.MalformedConfiguration(err)
	}

	for i := 0; i < inputs.Len(); i++ {
		io, err := inputs.IndexAsObject(i)
		if err != nil {
			return errors.MalformedConfiguration(err)
		}
		name, err := io.GetString("name")
		if err != nil {
			return errors.MalformedConfiguration(err)
		}

		ragged, err := io.BoolOr("allow_ragged_batch", false)
		if err != nil {
			return errors.MalformedConfiguration(err)
		}
		if ragged {
			m.raggedInputs[name] = struct{}{}
		}

		optional, err := io.BoolOr("optional", false)
		if err != nil {
			return errors.MalformedConfiguration(err)
		}
		if optional {
			if !allowOptional {
				return errors.UnsupportedOptionalInput(name)
			}
			m.optionalInputs[name] = struct{}{}
		}
	}
	return nil
}

// FindBatchOutput returns the batch output that produces the named output.
func (m *Model) FindBatchOutput(name string) (*batching.BatchOutput, bool) {
	bo, ok := m.batchOutputByName[name]
	return bo, ok
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Version() uint64 {
	return m.version
}

func (m *Model) RepositoryPath() string {
	return m.repositoryPath
}

// MaxBatchSize is 0 when the model doesn't batch.
func (m *Model) MaxBatchSize() int {
	return m.maxBatchSize
}

func (m *Model) EnablePinnedInput() bool {
	return m.enablePinnedInput
}

func (m *Model) EnablePinnedOutput() bool {
	return m.enablePinnedOutput
}

func (m *Model) IsInputRagged(name string) bool {
	_, ok := m.raggedInputs[name]
	return ok
}

func (m *Model) IsInputOptional(name string) bool {
	_, ok := m.optionalInputs[name]
	return ok
}

// RaggedInputs returns the ragged input names, sorted.
func (m *Model) RaggedInputs() []string {
	return slicesext.SortedKeys(m.raggedInputs)
}

// OptionalInputs returns the optional input names, sorted.
func (m *Model) OptionalInputs() []string {
	return slicesext.SortedKeys(m.optionalInputs)
}

func (m *Model) BatchInputs() []*batching.BatchInput {
	return m.batchInputs
}

func (m *Model) BatchOutputs() []*batching.BatchOutput {
	return m.batchOutputs
}

// Config returns the parsed configuration document.
func (m *Model) Config() *modelconfig.Value {
	return m.config
}

func (m *Model) HostModel() host.Model {
	return m.hostModel
}

func (m *Model) Server() host.Server {
	return m.server
}

func (m *Model) MemoryManager() host.MemoryManager {
	return m.memoryManager
}
