package exporters

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WebExporter serves prober metrics and a liveness endpoint for the hosting platform.
type WebExporter struct {
	Gatherer prometheus.Gatherer

	running atomic.Bool
	once    sync.Once
	router  *mux.Router
}

// SetRunning toggles the /healthz response between 204 and 503.
func (this *WebExporter) SetRunning(val bool) {
	this.running.Store(val)
}

func (this *WebExporter) ServeHTTP(wrt http.ResponseWriter, req *http.Request) {

	this.once.Do(func() {

		this.router = mux.NewRouter()

		gatherer := this.Gatherer
		if gatherer == nil {
			gatherer = prometheus.NewRegistry()
		}

		this.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
		this.router.HandleFunc("/healthz", this.handleHealth).
			Methods(http.MethodGet, http.MethodHead)
	})

	this.router.ServeHTTP(wrt, req)
}

func (this *WebExporter) handleHealth(wrt http.ResponseWriter, req *http.Request) {

	if !this.running.Load() {
		wrt.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	wrt.WriteHeader(http.StatusNoContent)
}
