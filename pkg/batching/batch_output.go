package batching

import (
	"github.com/replicate/tensorbackend/pkg/modelconfig"
)

// OutputKind selects how a batch output is split across requests.
type OutputKind string

const (
	ScatterWithInputShape OutputKind = "BATCH_SCATTER_WITH_INPUT_SHAPE"
)

// BatchOutput describes one batch output. A single descriptor may produce several
// named outputs.
type BatchOutput struct {
	Kind         OutputKind
	TargetNames  []string
	SourceInputs []string
}

// ParseBatchOutputs reads the batch_output section. An absent section yields no descriptors.
func ParseBatchOutputs(config *modelconfig.Value) ([]*BatchOutput, error) {
	section, ok := config.Lookup("batch_output")
	if !ok {
		return nil, nil
	}
	if !section.IsArray() {
		_, err := config.GetArray("batch_output")
		return nil, err
	}

	outputs := make([]*BatchOutput, 0, section.Len())
	for i := 0; i < section.Len(); i++ {
		entry, err := section.IndexAsObject(i)
		if err != nil {
			return nil, err
		}

		kindStr, err := entry.GetString("kind")
		if err != nil {
			return nil, err
		}
		if OutputKind(kindStr) != ScatterWithInputShape {
			return nil, &modelconfig.SchemaError{
				Field:   entry.Path() + ".kind",
				Message: "unexpected batch output kind '" + kindStr + "'",
			}
		}

		targets, err := targetNames(entry)
		if err != nil {
			return nil, err
		}
		sources, err := sourceInputs(entry)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, &BatchOutput{
			Kind:         ScatterWithInputShape,
			TargetNames:  targets,
			SourceInputs: sources,
		})
	}
	return outputs, nil
}
