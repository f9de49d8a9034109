// Package metrics holds Prometheus instruments shared by the form workflow
// and the development service.  All collectors are registered with the
// global registry, so importing this package is enough to expose them on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_form_submissions_total",
			Help: "Form submissions by form id and outcome.",
		}, []string{"form", "outcome"})

	DateValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_date_validation_failures_total",
			Help: "Tournament date rejections raised before any network call.",
		}, []string{"reason"})

	DeleteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_delete_requests_total",
			Help: "Tournament delete actions by outcome, including declined prompts.",
		}, []string{"outcome"})

	DevServerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_devserver_requests_total",
			Help: "Requests served by the development tournament service.",
		}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(
		FormSubmissions,
		DateValidationFailures,
		DeleteRequests,
		DevServerRequests,
	)
}
