package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
	"github.com/BrandonDHaskell/doorlog/internal/metrics"
)

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/estado", 200, time.Millisecond)
		m.EventsAppended(3)
		m.EventsRejected()
		m.DoorTransition("open", types.DoorUnlocked)
	})
}

func TestMetrics_DoorGaugeFollowsState(t *testing.T) {
	m := metrics.New()

	m.DoorTransition("open", types.DoorUnlocked)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP doorlog_door_unlocked 1 while the door is UNLOCKED, 0 while LOCKED.
# TYPE doorlog_door_unlocked gauge
doorlog_door_unlocked 1
`), "doorlog_door_unlocked"))

	m.DoorTransition("close", types.DoorLocked)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP doorlog_door_unlocked 1 while the door is UNLOCKED, 0 while LOCKED.
# TYPE doorlog_door_unlocked gauge
doorlog_door_unlocked 0
`), "doorlog_door_unlocked"))
}

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	m := metrics.New()
	m.EventsAppended(2)
	m.EventsRejected()
	m.ObserveHTTP("POST", "/accesos", 201, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `doorlog_access_events_total{result="appended"} 2`)
	assert.Contains(t, body, `doorlog_access_events_total{result="rejected"} 1`)
	assert.Contains(t, body, `doorlog_http_requests_total{method="POST",path="/accesos",status="201"} 1`)
}
