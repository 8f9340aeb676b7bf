package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Registers(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterSessionsFinished.Inc()
	m.CounterPointsAwarded.Add(50)
	m.CounterRemoteSync.WithLabelValues(SyncSkipped).Inc()
	m.CounterPlansGenerated.WithLabelValues("strength").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSessionsFinished))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.CounterPointsAwarded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRemoteSync.WithLabelValues(SyncSkipped)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewTestManager_IsolatedRegistries(t *testing.T) {
	// each test manager owns its registry, so creating two must not panic on duplicates
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}
