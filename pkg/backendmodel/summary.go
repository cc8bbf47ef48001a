package backendmodel

// Summary is a serializable snapshot of a Model's derived properties.
type Summary struct {
	Name               string               `json:"name"`
	Version            uint64               `json:"version"`
	RepositoryPath     string               `json:"repository_path"`
	MaxBatchSize       int                  `json:"max_batch_size"`
	EnablePinnedInput  bool                 `json:"enable_pinned_input"`
	EnablePinnedOutput bool                 `json:"enable_pinned_output"`
	RaggedInputs       []string             `json:"ragged_inputs"`
	OptionalInputs     []string             `json:"optional_inputs"`
	BatchInputs        []BatchInputSummary  `json:"batch_inputs"`
	BatchOutputs       []BatchOutputSummary `json:"batch_outputs"`
}

type BatchInputSummary struct {
	Kind        string   `json:"kind"`
	TargetNames []string `json:"target_names"`
	DataType    string   `json:"data_type"`
	SourceInput string   `json:"source_input"`
}

type BatchOutputSummary struct {
	Kind        string   `json:"kind"`
	TargetNames []string `json:"target_names"`
	SourceInput string   `json:"source_input"`
}

// Summary doesn't include first-dimension batching, which needs the host.
func (m *Model) Summary() Summary {
	s := Summary{
		Name:               m.name,
		Version:            m.version,
		RepositoryPath:     m.repositoryPath,
		MaxBatchSize:       m.maxBatchSize,
		EnablePinnedInput:  m.enablePinnedInput,
		EnablePinnedOutput: m.enablePinnedOutput,
		RaggedInputs:       m.RaggedInputs(),
		OptionalInputs:     m.OptionalInputs(),
		BatchInputs:        make([]BatchInputSummary, 0, len(m.batchInputs)),
		BatchOutputs:       make([]BatchOutputSummary, 0, len(m.batchOutputs)),
	}
	for _, bi := range m.batchInputs {
		s.BatchInputs = append(s.BatchInputs, BatchInputSummary{
			Kind:        string(bi.Kind),
			TargetNames: bi.TargetNames,
			DataType:    bi.DataType.String(),
			SourceInput: bi.SourceInputs[0],
		})
	}
	for _, bo := range m.batchOutputs {
		s.BatchOutputs = append(s.BatchOutputs, BatchOutputSummary{
			Kind:        string(bo.Kind),
			TargetNames: bo.TargetNames,
			SourceInput: bo.SourceInputs[0],
		})
	}
	return s
}
