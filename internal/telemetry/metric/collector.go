package metric

import "github.com/prometheus/client_golang/prometheus"

// ConnStats reports live connection state. The line server implements it.
type ConnStats interface {
	// ActiveConns is the number of connections currently being served.
	ActiveConns() int
	// AuthenticatedConns is how many of those have passed authentication.
	AuthenticatedConns() int
}

// Collector samples ConnStats on every scrape.
type Collector struct {
	stats         ConnStats
	active        *prometheus.Desc
	authenticated *prometheus.Desc
}

// NewCollector creates a collector reading from stats.
func NewCollector(stats ConnStats) *Collector {
	return &Collector{
		stats: stats,
		active: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connections", "active"),
			"Number of connections currently being served.",
			nil, nil,
		),
		authenticated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "connections", "authenticated"),
			"Number of open connections in the authenticated phase.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.active
	ch <- c.authenticated
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(c.stats.ActiveConns()))
	ch <- prometheus.MustNewConstMetric(c.authenticated, prometheus.GaugeValue, float64(c.stats.AuthenticatedConns()))
}
