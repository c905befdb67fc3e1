package posts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contentReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_content_reloads_total",
			Help: "Number of content reloads by result",
		},
		[]string{"result"},
	)

	postsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "site_posts_loaded",
			Help: "Number of posts in the current catalog",
		},
	)
)
