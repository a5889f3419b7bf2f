package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	catalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelfmap",
		Subsystem: "catalog",
		Name:      "loads_total",
		Help:      "Shelf catalog loads by the editor, by result (ok/degraded).",
	}, []string{"result"})

	catalogCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelfmap",
		Subsystem: "catalog",
		Name:      "cache_requests_total",
		Help:      "Shelf catalog cache lookups broken down by hit/miss/error.",
	}, []string{"result"})

	orderCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelfmap",
		Subsystem: "reorder",
		Name:      "commits_total",
		Help:      "Shelf order commits by result (saved/failed).",
	}, []string{"result"})

	dragMoves = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shelfmap",
		Subsystem: "reorder",
		Name:      "drag_moves_total",
		Help:      "Live list moves produced by drag hover events.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shelfmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route template, method and status class.",
	}, []string{"route", "method", "result"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shelfmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// RecordCatalogLoad conta uma carga de catálogo; degraded quando caiu para catálogo vazio.
func RecordCatalogLoad(degraded bool) {
	result := "ok"
	if degraded {
		result = "degraded"
	}
	catalogLoads.WithLabelValues(result).Inc()
}

// RecordCacheRequest conta uma consulta ao cache do catálogo ("hit", "miss" ou "error").
func RecordCacheRequest(result string) {
	catalogCache.WithLabelValues(result).Inc()
}

// RecordCommit conta uma gravação de ordem.
func RecordCommit(saved bool) {
	result := "saved"
	if !saved {
		result = "failed"
	}
	orderCommits.WithLabelValues(result).Inc()
}

// RecordDragMove conta um reposicionamento ao vivo.
func RecordDragMove() {
	dragMoves.Inc()
}

// ObserveHTTP registra uma requisição concluída.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, statusClass(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}

// Handler expõe o registro padrão para o Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
