package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "esxi_stats"

	inventoryRecords = "inventory_records"
	hostUp           = "host_powered_on"
	datastoreFree    = "datastore_free_bytes"
	commandsAllowed  = "commands_allowed"
	pollsTotal       = "polls_total"
	pollDuration     = "poll_duration_seconds"
	commandsTotal    = "commands_total"

	// Labels
	endpointLabel = "endpoint"
	categoryLabel = "category"
	hostLabel     = "host"
	datastoreName = "datastore"
	resultLabel   = "result"
	commandLabel  = "command"
	outcomeLabel  = "outcome"
)

var inventoryRecordsMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      inventoryRecords,
		Help:      "number of records per category after the last poll",
	},
	[]string{endpointLabel, categoryLabel},
)

var hostUpMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      hostUp,
		Help:      "1 when the host reports poweredOn",
	},
	[]string{endpointLabel, hostLabel},
)

var datastoreFreeMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      datastoreFree,
		Help:      "free space of the datastore in bytes",
	},
	[]string{endpointLabel, datastoreName},
)

var commandsAllowedMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      commandsAllowed,
		Help:      "1 when the license permits commands",
	},
	[]string{endpointLabel},
)

var pollsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      pollsTotal,
		Help:      "number of polls by result",
	},
	[]string{endpointLabel, resultLabel},
)

var pollDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      pollDuration,
		Help:      "duration of accepted polls",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
	},
	[]string{endpointLabel},
)

var commandsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      commandsTotal,
		Help:      "number of command results by outcome",
	},
	[]string{endpointLabel, commandLabel, outcomeLabel},
)

func UpdateInventoryRecords(endpoint, category string, count int) {
	inventoryRecordsMetric.With(prometheus.Labels{endpointLabel: endpoint, categoryLabel: category}).Set(float64(count))
}

// ResetHosts drops the per-host series before a new host table is published.
func ResetHosts() {
	hostUpMetric.Reset()
}

func UpdateHostUp(endpoint, host string, up bool) {
	hostUpMetric.With(prometheus.Labels{endpointLabel: endpoint, hostLabel: host}).Set(boolValue(up))
}

func ResetDatastores() {
	datastoreFreeMetric.Reset()
}

func UpdateDatastoreFree(endpoint, datastore string, bytes float64) {
	datastoreFreeMetric.With(prometheus.Labels{endpointLabel: endpoint, datastoreName: datastore}).Set(bytes)
}

func UpdateCommandsAllowed(endpoint string, allowed bool) {
	commandsAllowedMetric.With(prometheus.Labels{endpointLabel: endpoint}).Set(boolValue(allowed))
}

func IncreasePolls(endpoint, result string) {
	pollsTotalMetric.With(prometheus.Labels{endpointLabel: endpoint, resultLabel: result}).Inc()
}

func ObservePollDuration(endpoint string, seconds float64) {
	pollDurationMetric.With(prometheus.Labels{endpointLabel: endpoint}).Observe(seconds)
}

func IncreaseCommands(endpoint, command, outcome string) {
	commandsTotalMetric.With(prometheus.Labels{endpointLabel: endpoint, commandLabel: command, outcomeLabel: outcome}).Inc()
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(inventoryRecordsMetric)
	prometheus.MustRegister(hostUpMetric)
	prometheus.MustRegister(datastoreFreeMetric)
	prometheus.MustRegister(commandsAllowedMetric)
	prometheus.MustRegister(pollsTotalMetric)
	prometheus.MustRegister(pollDurationMetric)
	prometheus.MustRegister(commandsTotalMetric)
}
