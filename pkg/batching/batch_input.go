// Package batching parses the batch_input and batch_output sections of a model
// configuration.
//
// A batch input is a tensor the backend synthesizes for the whole batch from the
// requests' own inputs (element counts, item shapes). A batch output is a model
// output the backend scatters back to the requests using the shape of a source input.
package batching

import (
	"github.com/replicate/tensorbackend/pkg/modelconfig"
)

// InputKind selects how a batch input is computed.
type InputKind string

const (
	ElementCount                    InputKind = "BATCH_ELEMENT_COUNT"
	AccumulatedElementCount         InputKind = "BATCH_ACCUMULATED_ELEMENT_COUNT"
	AccumulatedElementCountWithZero InputKind = "BATCH_ACCUMULATED_ELEMENT_COUNT_WITH_ZERO"
	MaxElementCountAsShape          InputKind = "BATCH_MAX_ELEMENT_COUNT_AS_SHAPE"
	ItemShape                       InputKind = "BATCH_ITEM_SHAPE"
	ItemShapeFlatten                InputKind = "BATCH_ITEM_SHAPE_FLATTEN"
)

var inputKinds = map[InputKind]bool{
	ElementCount:                    true,
	AccumulatedElementCount:         true,
	AccumulatedElementCountWithZero: true,
	MaxElementCountAsShape:          true,
	ItemShape:                       true,
	ItemShapeFlatten:                true,
}

// BatchInput describes one synthesized batch input.
type BatchInput struct {
	Kind         InputKind
	TargetNames  []string
	DataType     DataType
	SourceInputs []string
}

// ParseBatchInputs reads the batch_input section. An absent section yields no descriptors.
func ParseBatchInputs(config *modelconfig.Value) ([]*BatchInput, error) {
	section, ok := config.Lookup("batch_input")
	if !ok {
		return nil, nil
	}
	if !section.IsArray() {
		_, err := config.GetArray("batch_input")
		return nil, err
	}

	inputs := make([]*BatchInput, 0, section.Len())
	for i := 0; i < section.Len(); i++ {
		entry, err := section.IndexAsObject(i)
		if err != nil {
			return nil, err
		}
		bi, err := parseBatchInput(entry)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, bi)
	}
	return inputs, nil
}

func parseBatchInput(entry *modelconfig.Value) (*BatchInput, error) {
	kindStr, err := entry.GetString("kind")
	if err != nil {
		return nil, err
	}
	kind := InputKind(kindStr)
	if !inputKinds[kind] {
		return nil, &modelconfig.SchemaError{
			Field:   entry.Path() + ".kind",
			Message: "unexpected batch input kind '" + kindStr + "'",
		}
	}

	targets, err := targetNames(entry)
	if err != nil {
		return nil, err
	}

	dtStr, err := entry.GetString("data_type")
	if err != nil {
		return nil, err
	}
	dt, err := ParseDataType(dtStr)
	if err != nil {
		return nil, &modelconfig.SchemaError{Field: entry.Path() + ".data_type", Message: err.Error()}
	}

	sources, err := sourceInputs(entry)
	if err != nil {
		return nil, err
	}

	return &BatchInput{
		Kind:         kind,
		TargetNames:  targets,
		DataType:     dt,
		SourceInputs: sources,
	}, nil
}

func targetNames(entry *modelconfig.Value) ([]string, error) {
	names, err := entry.StringsOr("target_name")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, &modelconfig.ValidationError{
			Field:   entry.Path() + ".target_name",
			Message: "at least one target name is required",
		}
	}
	for _, n := range names {
		if n == "" {
			return nil, &modelconfig.ValidationError{
				Field:   entry.Path() + ".target_name",
				Message: "target names must not be empty",
			}
		}
	}
	return names, nil
}

func sourceInputs(entry *modelconfig.Value) ([]string, error) {
	sources, err := entry.StringsOr("source_input")
	if err != nil {
		return nil, err
	}
	if len(sources) != 1 {
		return nil, &modelconfig.ValidationError{
			Field:   entry.Path() + ".source_input",
			Message: "exactly one source input is required",
		}
	}
	return sources, nil
}
