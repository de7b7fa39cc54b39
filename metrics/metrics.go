// Package metrics provides Prometheus collection for authentication
// traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
)

// Collector implements skroll.MetricsRecorder on a Prometheus registry.
type Collector struct {
	signups         *prometheus.CounterVec
	logins          *prometheus.CounterVec
	sessionRestores *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skroll_signups_total",
			Help: "Signup attempts by outcome.",
		}, []string{"status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skroll_logins_total",
			Help: "Login attempts by method and outcome.",
		}, []string{"method", "status"}),
		sessionRestores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skroll_session_restores_total",
			Help: "Session restore attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.signups, c.logins, c.sessionRestores)

	return c
}

func (c *Collector) RecordSignup(status skroll.Status) {
	c.signups.WithLabelValues(string(status)).Inc()
}

func (c *Collector) RecordLogin(method string, status skroll.Status) {
	c.logins.WithLabelValues(method, string(status)).Inc()
}

func (c *Collector) RecordSessionRestore(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.sessionRestores.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
