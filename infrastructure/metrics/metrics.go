package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// Время обработки команды бота
	ResponseTimeHistogramVec = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "response_time_seconds",
			Help:    "Bot handler response time in seconds",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10), // Бакеты от 0.1 до 1.0 секунд
		},
		[]string{"handler"},
	)
)

func Init() {
	prometheus.MustRegister(ResponseTimeHistogramVec)
}

// ObserveSince records the time elapsed since start for handler.
func ObserveSince(handler string, start time.Time) {
	ResponseTimeHistogramVec.WithLabelValues(handler).Observe(time.Since(start).Seconds())
}

func StartMetricsServer(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server running", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start metrics server", zap.Error(err))
		}
	}()

	return srv
}
