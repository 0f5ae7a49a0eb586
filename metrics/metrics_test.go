package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCollector(reg)

	m.RecordFrame(10 * time.Millisecond)
	m.RecordFrame(20 * time.Millisecond)
	m.SetBodies(10)
	m.SetSimulationSpeed(1.5)
	m.StreamClientConnected()
	m.StreamClientConnected()
	m.StreamClientDisconnected()
	m.RecordDropped("input")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.framesTotal))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.bodies))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.simSpeed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.streamClients))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.droppedInput.WithLabelValues("input")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.frameDuration))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "frames_total 2"))
}

func TestNilCollector(t *testing.T) {
	var m *Collector
	assert.NotPanics(t, func() {
		m.RecordFrame(time.Millisecond)
		m.SetBodies(1)
		m.SetSimulationSpeed(1)
		m.StreamClientConnected()
		m.StreamClientDisconnected()
		m.RecordDropped("input")
	})
}
