package modelconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "name": "resnet",
  "max_batch_size": 8,
  "optimization": {
    "input_pinned_memory": {"enable": true}
  },
  "input": [
    {"name": "IN0", "dims": ["3", 224], "allow_ragged_batch": true},
    {"name": "IN1", "optional": false}
  ]
}`

func mustParse(t *testing.T, data string) *Value {
	t.Helper()
	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	return doc
}

func TestValueAccessors(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, sampleConfig)

	t.Run("required members", func(t *testing.T) {
		t.Parallel()

		name, err := doc.GetString("name")
		require.NoError(t, err)
		assert.Equal(t, "resnet", name)

		mbs, err := doc.GetInt("max_batch_size")
		require.NoError(t, err)
		assert.Equal(t, int64(8), mbs)

		inputs, err := doc.GetArray("input")
		require.NoError(t, err)
		assert.Equal(t, 2, inputs.Len())
		assert.Equal(t, "input", inputs.Path())
	})

	t.Run("nested lookup", func(t *testing.T) {
		t.Parallel()

		opt, err := doc.GetObject("optimization")
		require.NoError(t, err)
		pinned, ok := opt.Lookup("input_pinned_memory")
		require.True(t, ok)
		enable, err := pinned.GetBool("enable")
		require.NoError(t, err)
		assert.True(t, enable)
		assert.Equal(t, "optimization.input_pinned_memory", pinned.Path())

		_, ok = opt.Lookup("output_pinned_memory")
		assert.False(t, ok)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		in, err := doc.GetArray("input")
		require.NoError(t, err)
		second, err := in.IndexAsObject(1)
		require.NoError(t, err)

		ragged, err := second.BoolOr("allow_ragged_batch", false)
		require.NoError(t, err)
		assert.False(t, ragged)

		count, err := doc.IntOr("instance_count", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("string encoded integers", func(t *testing.T) {
		t.Parallel()

		in, err := doc.GetArray("input")
		require.NoError(t, err)
		first, err := in.IndexAsObject(0)
		require.NoError(t, err)
		dims, err := first.GetArray("dims")
		require.NoError(t, err)

		var got []int64
		for _, d := range dims.Items() {
			i, err := d.AsInt()
			require.NoError(t, err)
			got = append(got, i)
		}
		assert.Equal(t, []int64{3, 224}, got)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"input", "max_batch_size", "name", "optimization"}, doc.Keys())
	})
}

func TestValueErrors(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"max_batch_size": "eight", "flag": 1, "ratio": 1.5, "input": [{"name": 7}], "nothing": null}`)

	testCases := []struct {
		name     string
		read     func() error
		field    string
		contains string
	}{
		{
			name: "missing key",
			read: func() error {
				_, err := doc.GetString("backend")
				return err
			},
			field:    "backend",
			contains: "missing required key",
		},
		{
			name: "null is missing",
			read: func() error {
				_, err := doc.GetBool("nothing")
				return err
			},
			field:    "nothing",
			contains: "missing required key",
		},
		{
			name: "non numeric string",
			read: func() error {
				_, err := doc.GetInt("max_batch_size")
				return err
			},
			field:    "max_batch_size",
			contains: "expected integer, got string",
		},
		{
			name: "fractional number",
			read: func() error {
				_, err := doc.IntOr("ratio", 0)
				return err
			},
			field:    "ratio",
			contains: "expected integer, got number",
		},
		{
			name: "number for bool",
			read: func() error {
				_, err := doc.BoolOr("flag", false)
				return err
			},
			field:    "flag",
			contains: "expected boolean",
		},
		{
			name: "nested path",
			read: func() error {
				in, err := doc.GetArray("input")
				if err != nil {
					return err
				}
				first, err := in.IndexAsObject(0)
				if err != nil {
					return err
				}
				_, err = first.GetString("name")
				return err
			},
			field:    "input[0].name",
			contains: "expected string",
		},
		{
			name: "array expected",
			read: func() error {
				_, err := doc.GetArray("flag")
				return err
			},
			field:    "flag",
			contains: "expected list",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.read()
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tc.field, schemaErr.Field)
			assert.Contains(t, err.Error(), tc.contains)

			var cfgErr ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestValueIndexOutOfRange(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"input": []}`)
	in, err := doc.GetArray("input")
	require.NoError(t, err)

	_, err = in.Index(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Empty(t, in.Items())
}

func TestStringsOr(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"target_name": ["A", "B"], "bad": ["A", 1]}`)

	names, err := doc.StringsOr("target_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	names, err = doc.StringsOr("source_input")
	require.NoError(t, err)
	assert.Nil(t, names)

	_, err = doc.StringsOr("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad[1]")
}
