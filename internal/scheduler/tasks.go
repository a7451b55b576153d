// Package scheduler enqueues and processes deferred offer work via asynq.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskProposalReminder nudges a customer whose priced offer is still
// unanswered shortly before the access link expires.
const TaskProposalReminder = "offers.proposal_reminder"

// ProposalReminderPayload identifies the offer to remind about.
type ProposalReminderPayload struct {
	OfferID     string `json:"offerId"`
	OfferNumber string `json:"offerNumber"`
}

// NewProposalReminderTask wraps the payload in an asynq task.
func NewProposalReminderTask(payload ProposalReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProposalReminder, data), nil
}

// ParseProposalReminderPayload decodes the task payload.
func ParseProposalReminderPayload(task *asynq.Task) (ProposalReminderPayload, error) {
	var payload ProposalReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProposalReminderPayload{}, err
	}
	return payload, nil
}
