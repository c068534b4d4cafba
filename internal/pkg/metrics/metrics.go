package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the counters the services report to. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	attendanceTransitions *prometheus.CounterVec
	absenceMarked         prometheus.Counter
	payrollRuns           *prometheus.CounterVec
	payrollRecords        prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		attendanceTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrms",
			Subsystem: "attendance",
			Name:      "transitions_total",
			Help:      "Attendance session events by event and outcome.",
		}, []string{"event", "outcome"}),
		absenceMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrms",
			Subsystem: "attendance",
			Name:      "absences_marked_total",
			Help:      "Absent records created by the absence sweep.",
		}),
		payrollRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrms",
			Subsystem: "payroll",
			Name:      "generation_runs_total",
			Help:      "Payroll generation runs by outcome.",
		}, []string{"outcome"}),
		payrollRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrms",
			Subsystem: "payroll",
			Name:      "records_generated_total",
			Help:      "Payroll records persisted by generation runs.",
		}),
	}

	reg.MustRegister(m.attendanceTransitions, m.absenceMarked, m.payrollRuns, m.payrollRecords)
	return m
}

func (m *Metrics) AttendanceTransition(event, outcome string) {
	if m == nil {
		return
	}
	m.attendanceTransitions.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) AbsencesMarked(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.absenceMarked.Add(float64(n))
}

func (m *Metrics) PayrollRun(outcome string, records int) {
	if m == nil {
		return
	}
	m.payrollRuns.WithLabelValues(outcome).Inc()
	if records > 0 {
		m.payrollRecords.Add(float64(records))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome classifies an operation result for the outcome label.
func Outcome(err error, expected func(error) bool) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case expected != nil && expected(err):
		return OutcomeRejected
	}
	return OutcomeError
}
