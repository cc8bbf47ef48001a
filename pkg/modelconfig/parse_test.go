package modelconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse([]byte(`{"max_batch_size": 4, "input": []}`))
		require.NoError(t, err)
		assert.True(t, doc.IsObject())
		assert.Empty(t, doc.Path())
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse([]byte("  \n"))
		require.Error(t, err)
		assert.Nil(t, doc)
		assert.Contains(t, err.Error(), "empty document")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte(`{"input": [`))
		require.Error(t, err)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Contains(t, err.Error(), "invalid JSON")
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte(`{"input": []} {"input": []}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected data after top-level value")
	})

	t.Run("root must be a mapping", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte(`[1, 2, 3]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document root must be a mapping, got list")
	})
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	doc, err := ParseYAML([]byte(`
max_batch_size: 8
input:
  - name: IN0
    allow_ragged_batch: true
`))
	require.NoError(t, err)

	mbs, err := doc.GetInt("max_batch_size")
	require.NoError(t, err)
	assert.Equal(t, int64(8), mbs)

	in, err := doc.GetArray("input")
	require.NoError(t, err)
	first, err := in.IndexAsObject(0)
	require.NoError(t, err)
	ragged, err := first.GetBool("allow_ragged_batch")
	require.NoError(t, err)
	assert.True(t, ragged)

	_, err = ParseYAML([]byte(""))
	require.Error(t, err)

	_, err = ParseYAML([]byte("input: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "config.json")
	yamlFile := filepath.Join(dir, "config.yml")
	txtFile := filepath.Join(dir, "config.pbtxt")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"max_batch_size": 2, "input": []}`), 0o644))
	require.NoError(t, os.WriteFile(yamlFile, []byte("max_batch_size: 2\ninput: []\n"), 0o644))
	require.NoError(t, os.WriteFile(txtFile, []byte(`max_batch_size: 2`), 0o644))

	fromJSON, err := ToJSON(jsonFile)
	require.NoError(t, err)
	fromYAML, err := ToJSON(yamlFile)
	require.NoError(t, err)
	assert.JSONEq(t, string(fromJSON), string(fromYAML))

	_, err = ParseFile(txtFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported configuration format")

	_, err = ParseFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, filepath.Join(dir, "missing.json"), parseErr.Source)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
