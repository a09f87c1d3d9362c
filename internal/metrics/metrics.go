package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeServed  = "served"
	OutcomeMissing = "missing"
	OutcomeError   = "error"
)

var (
	// HTTPRequests counts requests by matched route, method and response code
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exam_server_http_requests_total",
		Help: "The total number of HTTP requests handled",
	}, []string{"route", "method", "code"})

	// HTTPRequestDuration records the time spent serving a request
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exam_server_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// ExamDownloads counts download attempts by file and outcome (served, missing, error)
	ExamDownloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exam_server_downloads_total",
		Help: "The total number of exam file download attempts",
	}, []string{"file", "outcome"})

	// UniqueDownloaders counts clients that downloaded a file for the first time in a day
	UniqueDownloaders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exam_server_unique_downloaders_total",
		Help: "The number of distinct clients served an exam file within a day",
	}, []string{"file"})
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ExamDownloads)
	prometheus.MustRegister(UniqueDownloaders)
}
