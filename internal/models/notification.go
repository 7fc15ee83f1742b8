package models

// Notification event keys emitted by the opportunity lifecycle.
const (
	NotifyTaskDraft                = "task.create.draft"
	NotifyTaskSubmitted            = "task.update.submitted"
	NotifyTaskSubmittedAdmin       = "task.update.submitted.admin"
	NotifyTaskOpened               = "task.update.opened"
	NotifyTaskAssigned             = "task.update.assigned"
	NotifyTaskNotAssigned          = "task.update.not.assigned"
	NotifyTaskCompleted            = "task.update.completed"
	NotifyTaskCompletedParticipant = "task.update.completed.participant"
	NotifyTaskCanceled             = "task.update.canceled"
	NotifyTaskApplied              = "task.update.applied"
	NotifyTaskDue                  = "task.due"
)

// NotificationModel carries the recipient plus the opportunity and any
// auxiliary actors the template needs. When Admin is set it is the
// primary recipient, otherwise User is.
type NotificationModel struct {
	Task       *Opportunity `json:"task"`
	User       *User        `json:"user"`
	Admin      *User        `json:"admin,omitempty"`
	Volunteers string       `json:"volunteers,omitempty"`
}

// NotificationEvent is an ephemeral value handed to the dispatcher and
// discarded; it is never persisted here.
type NotificationEvent struct {
	Action string            `json:"action"`
	Model  NotificationModel `json:"model"`
}
