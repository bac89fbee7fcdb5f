package metrics

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_mutations_total",
		Help: "Total applied mutation operations",
	}, []string{"op"})
	MutationRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_mutation_rejections_total",
		Help: "Total rejected mutation operations",
	}, []string{"op", "reason"})
	NotificationsFanout = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_notifications_fanout_total",
		Help: "Total notifications fanned out to recipients",
	}, []string{"type"})
	Navigations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_navigations_total",
		Help: "Total router navigations by target view",
	}, []string{"view"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_api_retries_total",
		Help: "Total backend API retry attempts",
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_command_runs_total",
		Help: "Total CLI command runs",
	}, []string{"cmd"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chiche_command_errors_total",
		Help: "Total CLI command errors",
	}, []string{"cmd"})
)

func init() {
	prometheus.MustRegister(Mutations, MutationRejections, NotificationsFanout, Navigations, APIRetries, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// IncMutation records one applied operation.
func IncMutation(op string) { Mutations.WithLabelValues(op).Inc() }

// IncRejection records one rejected operation with its reason.
func IncRejection(op, reason string) { MutationRejections.WithLabelValues(op, reason).Inc() }

// IncFanout records one notification delivery.
func IncFanout(typ string) { NotificationsFanout.WithLabelValues(typ).Inc() }

// IncNavigation records a router transition.
func IncNavigation(view string) { Navigations.WithLabelValues(view).Inc() }

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
