package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefilter/pkg/catalog"
	"storefilter/pkg/common"
	"storefilter/pkg/logging"
	"storefilter/pkg/query"
	"storefilter/pkg/settings"
	"storefilter/pkg/types"
)

var (
	filterRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefilter_filter_requests_total",
		Help: "The total number of processed filter requests",
	})
	countRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefilter_facet_count_requests_total",
		Help: "The total number of processed facet count requests",
	})
	rejectedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefilter_rejected_requests_total",
		Help: "The total number of requests rejected by the token check",
	})
	filterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefilter_filter_duration_seconds",
		Help:    "Filter request duration",
		Buckets: prometheus.DefBuckets,
	})
)

// WebServer is the HTTP adapter over the filter engine. All filter state
// lives in the request payload; the server holds only shared read-only
// collaborators.
type WebServer struct {
	Log    *zap.Logger
	Engine *query.Engine
	Facets *query.FacetCounter
	Terms  catalog.TermSource
	Prices catalog.PriceSource
	Bounds *query.BoundsCache
	Lookup *query.LookupCache

	Settings settings.Provider
	Tokens   *TokenIssuer

	CategoryTaxonomy string
	DefaultTaxonomy  string
	MaxPageSize      int
	Dimensions       []types.DimensionConfig
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/filter", ws.withRequestLog(common.JsonHandler(ws.FilterProducts)))
	mux.HandleFunc("/api/filter/counts", ws.withRequestLog(common.JsonHandler(ws.FacetCounts)))
	mux.HandleFunc("/api/filter/ranges", ws.withRequestLog(common.JsonHandler(ws.FilterRanges)))
	mux.HandleFunc("/api/filter/token", ws.withRequestLog(common.JsonHandler(ws.IssueToken)))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (ws *WebServer) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := ws.Log
		if log == nil {
			log = zap.NewNop()
		}
		log = log.With(zap.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(logging.ToCtx(r.Context(), log)))
	}
}
