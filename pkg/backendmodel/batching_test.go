package backendmodel

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicate/tensorbackend/internal/loggingtest"
	"github.com/replicate/tensorbackend/pkg/errors"
	"github.com/replicate/tensorbackend/pkg/host"
	"github.com/replicate/tensorbackend/pkg/host/hosttest"
)

func newBatchingModel(t *testing.T, server *hosttest.Server) *Model {
	t.Helper()

	hm := hosttest.NewModel("resnet", 4, `{"max_batch_size": 8, "input": [{"name": "IN0"}]}`)
	hm.FakeServer = server
	m, err := New(hm, false, WithLogger(loggingtest.NewTestLogger(t)))
	require.NoError(t, err)
	return m
}

func TestSupportsFirstDimBatching(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		flags    host.BatchFlags
		supports bool
	}{
		{name: "first dim", flags: host.BatchFirstDim, supports: true},
		{name: "unknown", flags: host.BatchUnknown, supports: false},
		{name: "both bits", flags: host.BatchUnknown | host.BatchFirstDim, supports: true},
		{name: "no bits", flags: 0, supports: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := &hosttest.Server{Flags: tc.flags}
			m := newBatchingModel(t, server)
			assert.Equal(t, 0, server.Calls(), "construction must not query batch properties")

			for i := 0; i < 3; i++ {
				supports, err := m.SupportsFirstDimBatching()
				require.NoError(t, err)
				assert.Equal(t, tc.supports, supports)
			}
			assert.Equal(t, 1, server.Calls())
			assert.Equal(t, []string{"resnet"}, server.Queries())
		})
	}
}

func TestSupportsFirstDimBatchingRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	hostErr := stderrors.New("model 'resnet' version 4 is not ready")
	server := &hosttest.Server{Flags: host.BatchFirstDim, Errs: []error{hostErr}}
	m := newBatchingModel(t, server)

	supports, err := m.SupportsFirstDimBatching()
	require.Error(t, err)
	assert.False(t, supports)
	assert.True(t, errors.IsHostQueryFailed(err))
	assert.ErrorIs(t, err, hostErr)

	supports, err = m.SupportsFirstDimBatching()
	require.NoError(t, err)
	assert.True(t, supports)

	supports, err = m.SupportsFirstDimBatching()
	require.NoError(t, err)
	assert.True(t, supports)
	assert.Equal(t, 2, server.Calls())
}

func TestSupportsFirstDimBatchingConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	server := &hosttest.Server{Flags: host.BatchFirstDim, Gate: gate}
	m := newBatchingModel(t, server)

	const callers = 16
	results := make([]bool, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.SupportsFirstDimBatching()
		}(i)
	}

	require.Eventually(t, func() bool {
		return server.Calls() == 1
	}, 5*time.Second, time.Millisecond)
	// Give the other callers time to pile up behind the in-flight query.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i])
	}
	assert.Equal(t, 1, server.Calls())
}
