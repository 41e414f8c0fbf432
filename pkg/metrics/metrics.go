package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts successfully created orders.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dropmarket_orders_created_total",
		Help: "Number of orders created",
	})

	// OrderTransitions counts committed order state transitions by kind.
	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dropmarket_order_transitions_total",
		Help: "Number of committed order state transitions",
	}, []string{"transition"})

	// VerificationsSubmitted counts accepted verification applications.
	VerificationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dropmarket_verifications_submitted_total",
		Help: "Number of verification applications submitted",
	})

	// VerificationDecisions counts admin adjudications by decision.
	VerificationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dropmarket_verification_decisions_total",
		Help: "Number of verification decisions",
	}, []string{"decision"})

	// NotificationsSent counts successfully dispatched notifications.
	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dropmarket_notifications_sent_total",
		Help: "Number of notifications delivered",
	})

	// NotificationsFailed counts swallowed delivery failures.
	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dropmarket_notifications_failed_total",
		Help: "Number of notification deliveries that failed",
	})
)
