// Package metrics exports simulation activity to Prometheus. Recorder is a
// simulation observer, so counters move while a solver runs, and it also
// records the outcome of every closed run.
package metrics

import (
	"net/http"

	"drones/internal/core/domain/model/drone"
	"drones/internal/core/domain/model/kernel"
	"drones/internal/core/domain/model/order"
	"drones/internal/core/domain/model/run"
	"drones/internal/core/domain/model/warehouse"
	"drones/internal/core/domain/simulation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "drones"

const (
	OutcomeFinished = "finished"
	OutcomeFailed   = "failed"
)

// Recorder owns its registry, so several recorders (one per test) never clash.
type Recorder struct {
	registry *prometheus.Registry

	flights           *prometheus.CounterVec
	flightCost        *prometheus.CounterVec
	ordersClaimed     prometheus.Counter
	ordersCompleted   prometheus.Counter
	packagesRetrieved *prometheus.CounterVec
	runs              *prometheus.CounterVec
	makespan          *prometheus.HistogramVec
	overTimeLimit     *prometheus.CounterVec
}

var _ simulation.Observer = (*Recorder)(nil)

// NewRecorder builds a recorder. With withRuntime the Go and process
// collectors are registered too.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		flights: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "flights_total", Help: "Drone flights by drone."},
			[]string{"drone"},
		),
		flightCost: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "flight_cost_total", Help: "Accumulated flight cost by drone."},
			[]string{"drone"},
		),
		ordersClaimed: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "orders_claimed_total", Help: "Orders claimed by a solver."},
		),
		ordersCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "orders_completed_total", Help: "Orders delivered."},
		),
		packagesRetrieved: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "packages_retrieved_total", Help: "Packages taken out of warehouses."},
			[]string{"warehouse"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "runs_total", Help: "Closed runs by solver and outcome."},
			[]string{"solver", "outcome"},
		),
		makespan: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_makespan",
				Help:      "Makespan of finished runs.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"solver"},
		),
		overTimeLimit: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "runs_over_time_limit_total", Help: "Finished runs whose makespan exceeded the time limit."},
			[]string{"solver"},
		),
	}

	r.registry.MustRegister(
		r.flights,
		r.flightCost,
		r.ordersClaimed,
		r.ordersCompleted,
		r.packagesRetrieved,
		r.runs,
		r.makespan,
		r.overTimeLimit,
	)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) DroneFlew(d *drone.Drone, _, _ kernel.Position, cost int) {
	r.flights.WithLabelValues(d.Name()).Inc()
	r.flightCost.WithLabelValues(d.Name()).Add(float64(cost))
}

func (r *Recorder) OrderClaimed(*order.Order) {
	r.ordersClaimed.Inc()
}

func (r *Recorder) PackageRetrieved(w *warehouse.Warehouse, _ kernel.Package) {
	r.packagesRetrieved.WithLabelValues(w.Name()).Inc()
}

func (r *Recorder) OrderCompleted(*order.Order) {
	r.ordersCompleted.Inc()
}

// RecordRun counts a closed run. Open runs are ignored.
func (r *Recorder) RecordRun(rn *run.Run) {
	switch {
	case rn.Validate() != nil || !rn.IsClosed():
		return
	case rn.IsFailed():
		r.runs.WithLabelValues(rn.Solver(), OutcomeFailed).Inc()
	default:
		r.runs.WithLabelValues(rn.Solver(), OutcomeFinished).Inc()
		r.makespan.WithLabelValues(rn.Solver()).Observe(float64(rn.Makespan()))
		if rn.ExceededTimeLimit() {
			r.overTimeLimit.WithLabelValues(rn.Solver()).Inc()
		}
	}
}
