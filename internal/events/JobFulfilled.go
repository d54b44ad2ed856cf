package events

var JobFulfilledTopic = "JobFulfilledEvent"

// JobFulfilled is published when a job posting is marked as fulfilled.
type JobFulfilled struct {
	JobID string
}
