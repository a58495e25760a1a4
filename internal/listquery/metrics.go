package listquery

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts request-cache activity per namespace.
type Metrics struct {
	fetches       *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	pollExhausted *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adminconsole_list_fetches_total",
			Help: "Upstream list fetches by namespace and result.",
		}, []string{"namespace", "result"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adminconsole_list_cache_hits_total",
			Help: "List pages served from cache while revalidating.",
		}, []string{"namespace"}),
		pollExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adminconsole_list_poll_exhausted_total",
			Help: "Polling sessions abandoned after reaching the attempt ceiling.",
		}, []string{"namespace"}),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.cacheHits, m.pollExhausted)
	}
	return m
}

func (m *Metrics) fetched(namespace string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(namespace, result).Inc()
}

func (m *Metrics) hit(namespace string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(namespace).Inc()
}

func (m *Metrics) exhausted(namespace string) {
	if m == nil {
		return
	}
	m.pollExhausted.WithLabelValues(namespace).Inc()
}
