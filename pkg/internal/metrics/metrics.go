// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UserRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entraide_user_registrations_total",
		Help: "Total number of registered accounts",
	})

	UserAnonymizations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entraide_user_anonymizations_total",
		Help: "Total number of anonymized accounts",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entraide_messages_sent_total",
		Help: "Total number of private messages sent",
	})

	EventRegistrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entraide_event_registrations_total",
		Help: "Event registration attempts by result",
	}, []string{"result"})

	RatingsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entraide_ratings_submitted_total",
		Help: "Submitted ratings by target type",
	}, []string{"target"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entraide_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "status"})
)
