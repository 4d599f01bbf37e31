package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAttendance("Present")
	m.ObserveAttendance("Present")
	m.ObserveSkipped("duplicate", 3)
	m.ObserveRecorded(5)
	m.ObserveRepair("reconcile", "repaired")
	m.ObserveSyncRun(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AttendanceMarked.WithLabelValues("Present")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CheckinsSkipped.WithLabelValues("duplicate")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CheckinsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepairItems.WithLabelValues("reconcile", "repaired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncRuns.WithLabelValues("error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveAttendance("Absent")
		m.ObserveSkipped("classified", 1)
		m.ObserveRecorded(1)
		m.ObserveRepair("clear_window", "failed")
		m.ObserveSyncRun(nil)
	})
}
