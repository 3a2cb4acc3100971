package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "preorder_saves_total",
		Help: "Pre-order configs saved through the admin surface.",
	})

	resolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "preorder_resolves_total",
		Help: "Storefront config resolutions by outcome.",
	}, []string{"outcome"})

	policySyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "preorder_policy_sync_total",
		Help: "Inventory policy sync attempts by outcome.",
	}, []string{"outcome"})

	// WebhookSignatureFailures counts webhook requests rejected before
	// processing because their HMAC signature did not match.
	WebhookSignatureFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "preorder_webhook_signature_failures_total",
		Help: "Webhook requests rejected for a bad signature.",
	})
)
