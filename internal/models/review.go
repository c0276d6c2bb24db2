package models

import "time"

// ReviewState holds the process-wide review prompt counters.
type ReviewState struct {
	PromptCount    int        `json:"prompt_count"`
	LastPromptDate *time.Time `json:"last_prompt_date,omitempty"`
	EpochStart     *time.Time `json:"epoch_start,omitempty"`
}
