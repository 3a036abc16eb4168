// Package metrics expone contadores Prometheus del motor de inventario y un
// collector de estadísticas del pool pgx. La aplicación host decide en qué
// registry montarlos (Register); la librería no publica ningún endpoint.
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MovementsApplied cuenta movimientos confirmados, por tipo.
	MovementsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movements_applied_total",
			Help: "Movimientos de inventario confirmados",
		},
		[]string{"type"},
	)

	// MovementsRejected cuenta rechazos tipados, por tipo y razón.
	MovementsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movements_rejected_total",
			Help: "Movimientos de inventario rechazados",
		},
		[]string{"type", "reason"},
	)

	// TxRetries cuenta reintentos de transacción por fallo de serialización.
	TxRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_tx_serialization_retries_total",
			Help: "Reintentos de transacción por conflicto de serialización",
		},
	)
)

// Register registra los contadores del motor en el registry dado.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(MovementsApplied, MovementsRejected, TxRetries)
}

// PoolStatsCollector implementa prometheus.Collector para métricas del pool pgx.
type PoolStatsCollector struct {
	pool *pgxpool.Pool

	acquiredConns *prometheus.Desc
	idleConns     *prometheus.Desc
	totalConns    *prometheus.Desc
	maxConns      *prometheus.Desc
}

// NewPoolStatsCollector crea el collector de estadísticas del pool.
func NewPoolStatsCollector(pool *pgxpool.Pool) *PoolStatsCollector {
	return &PoolStatsCollector{
		pool: pool,
		acquiredConns: prometheus.NewDesc(
			"db_pool_acquired_connections",
			"Conexiones actualmente adquiridas", nil, nil,
		),
		idleConns: prometheus.NewDesc(
			"db_pool_idle_connections",
			"Conexiones actualmente ociosas", nil, nil,
		),
		totalConns: prometheus.NewDesc(
			"db_pool_total_connections",
			"Total de conexiones en el pool", nil, nil,
		),
		maxConns: prometheus.NewDesc(
			"db_pool_max_connections",
			"Máximo de conexiones permitidas", nil, nil,
		),
	}
}

// Describe implementa prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
}

// Collect implementa prometheus.Collector.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stats.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stats.MaxConns()))
}
