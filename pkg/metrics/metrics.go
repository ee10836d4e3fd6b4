package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "dxtree"

	metricLabelHandler = "handler"
	metricLabelStatus  = "status"
	metricLabelKind    = "kind"
	metricLabelMode    = "mode"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// GraphQLRequestCounter count the number of graphql requests
	GraphQLRequestCounter = newCounterVec(
		"graphql_request_count",
		"Number of graphql requests sent to the data exchange api",
		metricLabelStatus,
	)
	// GraphQLRequestDuration observe the duration of graphql requests
	GraphQLRequestDuration = newSummaryVec(
		"graphql_request_duration_seconds",
		"Seconds to send a graphql request and decode its response",
		metricLabelStatus,
	)
	// FolderExpansionCounter count the number of folder expansions
	FolderExpansionCounter = newCounterVec(
		"folder_expansion_count",
		"Number of folder content fetches while building folder trees",
		metricLabelMode, metricLabelStatus,
	)
	// SkippedBranchesCounter count the number of branches dropped from the output
	SkippedBranchesCounter = newCounterVec(
		"skipped_branches_count",
		"Number of hubs, projects or folders left out because fetching them failed",
		metricLabelKind,
	)
	// ServiceRequestCounter count the number of requests for each handler
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus,
	)
	// ServiceRequestDuration observe the duration of requests for each handler
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to execute a handler and write its response",
		metricLabelHandler, metricLabelStatus,
	)
	// UpdatesCompletedCounter count the number of completed updates
	UpdatesCompletedCounter = newCounterVec(
		"updates_completed_count",
		"Number of updates that were successfully completed",
	)
	// UpdatesFailedCounter count the number of updates that had an error
	UpdatesFailedCounter = newCounterVec(
		"updates_failed_count",
		"Number of updates that failed due to an error",
	)
	// UpdateDuration observe the duration of each repo.update() call
	UpdateDuration = newSummaryVec(
		"update_duration_seconds",
		"Duration in seconds for each repo.update() call",
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist the hierarchy history
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store the hierarchy history",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
