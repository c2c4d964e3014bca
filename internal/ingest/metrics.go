package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legisync_documents_total",
		Help: "Archive entries processed, by table and outcome",
	}, []string{"table", "outcome"})

	archivesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legisync_archives_total",
		Help: "Archives processed, by result (committed, failed)",
	}, []string{"result"})

	deletedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "legisync_deleted_rows_total",
		Help: "Document rows removed by deletion manifests",
	})

	archiveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "legisync_archive_duration_seconds",
		Help:    "Time to apply one archive",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 14),
	})
)
