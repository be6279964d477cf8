package report

import (
	"strconv"

	"github.com/anupcshan/acutool/eeprom"
	"github.com/prometheus/client_golang/prometheus"
)

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Metrics exposes analysis results as gauges, for a node exporter textfile
// collector watching a bench of dumps.
type Metrics struct {
	registry *prometheus.Registry

	size         *prometheus.GaugeVec
	pinMatch     *prometheus.GaugeVec
	pairingMatch *prometheus.GaugeVec
	configMirror *prometheus.GaugeVec
	obdState     *prometheus.GaugeVec
	slotEmpty    *prometheus.GaugeVec
	warnings     *prometheus.GaugeVec
	diffBytes    *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.size = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "dump_size_bytes",
		Help:      "Size of the dump",
	}, []string{"dump"})
	m.registry.MustRegister(m.size)

	m.pinMatch = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "pin_match",
		Help:      "PIN copies agree (1) or not (0)",
	}, []string{"dump"})
	m.registry.MustRegister(m.pinMatch)

	m.pairingMatch = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "pairing_match",
		Help:      "ECU pairing copies agree (1) or not (0)",
	}, []string{"dump"})
	m.registry.MustRegister(m.pairingMatch)

	m.configMirror = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "config_mirror_match",
		Help:      "Config blocks agree (1) or not (0)",
	}, []string{"dump"})
	m.registry.MustRegister(m.configMirror)

	m.obdState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "obd_state",
		Help:      "OBD programming state (1 if current, 0 otherwise)",
	}, []string{"dump", "state"})
	m.registry.MustRegister(m.obdState)

	m.slotEmpty = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "remote_slot_empty",
		Help:      "Remote slot is empty (1) or programmed (0)",
	}, []string{"dump", "slot"})
	m.registry.MustRegister(m.slotEmpty)

	m.warnings = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "warnings",
		Help:      "Advisory findings by kind",
	}, []string{"dump", "kind"})
	m.registry.MustRegister(m.warnings)

	m.diffBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acutool",
		Name:      "diff_bytes",
		Help:      "Differing bytes between two dumps",
	}, []string{"a", "b"})
	m.registry.MustRegister(m.diffBytes)

	return m
}

// Observe records r. It is safe to call from several goroutines.
func (m *Metrics) Observe(r *Report) {
	m.size.WithLabelValues(r.Name).Set(float64(r.Size))

	if r.Pin != nil {
		m.pinMatch.WithLabelValues(r.Name).Set(boolGauge(r.Pin.Matches))
	}
	if r.Pairing != nil {
		m.pairingMatch.WithLabelValues(r.Name).Set(boolGauge(r.Pairing.Matches))
	}
	if r.ConfigMirror != nil {
		m.configMirror.WithLabelValues(r.Name).Set(boolGauge(*r.ConfigMirror))
	}
	if r.Obd != nil {
		for _, s := range []eeprom.ObdState{eeprom.ObdUnknown, eeprom.ObdUnlocked, eeprom.ObdLocked} {
			m.obdState.WithLabelValues(r.Name, s.String()).Set(boolGauge(s.String() == r.Obd.State))
		}
	}
	for _, s := range r.Slots {
		m.slotEmpty.WithLabelValues(r.Name, strconv.Itoa(s.Slot)).Set(boolGauge(s.Empty))
	}

	counts := map[eeprom.WarningKind]int{}
	for _, w := range r.Warnings {
		counts[w.Kind]++
	}
	for kind, n := range counts {
		m.warnings.WithLabelValues(r.Name, string(kind)).Set(float64(n))
	}
}

func (m *Metrics) ObserveComparison(c *Comparison) {
	m.diffBytes.WithLabelValues(c.NameA, c.NameB).Set(float64(c.Total))
}

// WriteTextfile writes all gauges in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
