package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route pattern
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "object_log_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// TemplateHelperCalls counts template helper invocations
	TemplateHelperCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "object_log_template_helper_calls_total",
			Help: "Total template helper invocations",
		},
		[]string{"helper", "outcome"}, // ok|error
	)
)

// Handler serves the /metrics endpoint
var Handler = promhttp.Handler

// Register registers the collectors with reg
func Register(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal, TemplateHelperCalls)
}

// ObserveHelper records one template helper invocation
func ObserveHelper(helper string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	TemplateHelperCalls.WithLabelValues(helper, outcome).Inc()
}
