package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters reported by attendance processing. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	AttendanceMarked *prometheus.CounterVec
	CheckinsSkipped  *prometheus.CounterVec
	CheckinsRecorded prometheus.Counter
	RepairItems      *prometheus.CounterVec
	SyncRuns         *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AttendanceMarked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biometric_sync",
			Name:      "attendance_marked_total",
			Help:      "Attendance records created and submitted, by status.",
		}, []string{"status"}),
		CheckinsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biometric_sync",
			Name:      "checkins_skipped_total",
			Help:      "Check-ins flagged skip_auto_attendance, by reason.",
		}, []string{"reason"}),
		CheckinsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "biometric_sync",
			Name:      "checkins_recorded_total",
			Help:      "Check-in logs received from devices.",
		}),
		RepairItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biometric_sync",
			Name:      "repair_items_total",
			Help:      "Check-ins visited by repair jobs, by job and outcome.",
		}, []string{"job", "outcome"}),
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biometric_sync",
			Name:      "sync_runs_total",
			Help:      "Auto attendance cycles, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.AttendanceMarked, m.CheckinsSkipped, m.CheckinsRecorded, m.RepairItems, m.SyncRuns)
	return m
}

func (m *Metrics) ObserveAttendance(status string) {
	if m == nil {
		return
	}
	m.AttendanceMarked.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSkipped(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.CheckinsSkipped.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) ObserveRecorded(n int) {
	if m == nil || n == 0 {
		return
	}
	m.CheckinsRecorded.Add(float64(n))
}

func (m *Metrics) ObserveRepair(job string, outcome string) {
	if m == nil {
		return
	}
	m.RepairItems.WithLabelValues(job, outcome).Inc()
}

func (m *Metrics) ObserveSyncRun(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SyncRuns.WithLabelValues(result).Inc()
}
