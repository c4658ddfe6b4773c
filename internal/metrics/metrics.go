package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nexus_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Generation Metrics
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_generations_total",
			Help: "Total number of prompt generations",
		},
		[]string{"status"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nexus_generation_duration_seconds",
			Help:    "Prompt generation latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// Entitlement Metrics
	CreditsDebitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexus_credits_debited_total",
			Help: "Total number of credits debited",
		},
	)

	CreditDebitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexus_credit_debit_rejections_total",
			Help: "Total number of debits rejected for insufficient credits",
		},
	)

	PlanPurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_plan_purchases_total",
			Help: "Total number of plan purchases applied",
		},
		[]string{"plan"},
	)

	// Identity Metrics
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexus_registrations_total",
			Help: "Total number of user registrations",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_logins_total",
			Help: "Total number of logins",
		},
		[]string{"result"},
	)

	// Storage Metrics
	BlobOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_blob_operations_total",
			Help: "Total number of blob store operations",
		},
		[]string{"operation", "status"},
	)

	// Showcase Metrics
	ShowcaseItemsAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexus_showcase_items_accepted_total",
			Help: "Total number of showcase items accepted by bulk inserts",
		},
	)

	ShowcaseItemsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nexus_showcase_items_rejected_total",
			Help: "Total number of showcase images rejected by the row cap",
		},
	)

	// Payment Metrics
	PaymentNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexus_payment_notifications_total",
			Help: "Total number of payment gateway notifications",
		},
		[]string{"status"},
	)
)
