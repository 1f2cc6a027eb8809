package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector exposes ATM operation metrics on a private registry.
type MetricsCollector struct {
	registry          *prometheus.Registry
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	pinChecks         *prometheus.CounterVec
	accountBalance    *prometheus.GaugeVec
	accountLocked     *prometheus.GaugeVec
	ledgerEntries     *prometheus.GaugeVec
	logger            *slog.Logger
}

func NewMetricsCollector(logger *slog.Logger) *MetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "atm_operations_total",
			Help: "Total number of ATM operations by kind and outcome",
		}, []string{"operation", "outcome"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atm_operation_duration_seconds",
			Help:    "Time taken to run an ATM operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		pinChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "atm_pin_checks_total",
			Help: "PIN verifications by result",
		}, []string{"result"}),
		accountBalance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "atm_account_balance",
			Help: "Current account balance",
		}, []string{"account_number"}),
		accountLocked: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "atm_account_locked",
			Help: "1 when the account is locked by failed PIN attempts",
		}, []string{"account_number"}),
		ledgerEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "atm_ledger_entries",
			Help: "Number of entries in the account ledger",
		}, []string{"account_number"}),
		logger: logger,
	}
}

// RecordOperation counts one operation. outcome is "success" or the failure reason.
func (m *MetricsCollector) RecordOperation(operation, outcome string, duration time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPinCheck counts one PIN verification: "matched", "mismatch" or "locked".
func (m *MetricsCollector) RecordPinCheck(result string) {
	m.pinChecks.WithLabelValues(result).Inc()
}

// UpdateAccountState refreshes the per-account gauges.
func (m *MetricsCollector) UpdateAccountState(accountNumber string, balance float64, locked bool, ledgerEntries int) {
	m.accountBalance.WithLabelValues(accountNumber).Set(balance)
	lockedValue := 0.0
	if locked {
		lockedValue = 1
	}
	m.accountLocked.WithLabelValues(accountNumber).Set(lockedValue)
	m.ledgerEntries.WithLabelValues(accountNumber).Set(float64(ledgerEntries))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
