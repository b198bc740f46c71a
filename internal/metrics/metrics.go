package metrics

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImagesSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s3_image_nodes",
		Name:      "images_saved_total",
		Help:      "Total images uploaded by the save node.",
	})
	ImagesLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s3_image_nodes",
		Name:      "images_loaded_total",
		Help:      "Total images downloaded and decoded by the load node.",
	})
	ObjectsListed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s3_image_nodes",
		Name:      "objects_listed_total",
		Help:      "Total object records returned by the list node.",
	})
	OperationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s3_image_nodes",
		Name:      "operation_errors_total",
		Help:      "Total node operations that failed.",
	})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(ImagesSaved, ImagesLoaded, ObjectsListed, OperationErrors)
}

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Non-blocking when run in goroutine.
func Serve(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, nil)
}

// AddrFromEnv returns listen address from METRICS_ADDR or default ":9090".
func AddrFromEnv() string {
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		return v
	}
	return ":9090"
}
