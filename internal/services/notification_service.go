package services

import (
	"fmt"

	"opphub/internal/models"
	"opphub/pkg/logger"
)

// NotificationService is the dispatch boundary for lifecycle events.
// Delivery is fire-and-forget: a failed send is logged and swallowed,
// it never fails the operation that produced the event.
type NotificationService interface {
	CreateNotification(event models.NotificationEvent)
}

// TelegramSender is the optional chat channel; nil disables it.
type TelegramSender interface {
	SendMessage(chatID int64, text string) error
}

type notificationService struct {
	email    EmailService
	telegram TelegramSender
}

func NewNotificationService(email EmailService, telegram TelegramSender) NotificationService {
	return &notificationService{email: email, telegram: telegram}
}

var notificationSubjects = map[string]string{
	models.NotifyTaskDraft:                "Your draft opportunity was saved",
	models.NotifyTaskSubmitted:            "Your opportunity was submitted for review",
	models.NotifyTaskSubmittedAdmin:       "An opportunity is waiting for review",
	models.NotifyTaskOpened:               "Your opportunity is now open",
	models.NotifyTaskAssigned:             "You have been selected for an opportunity",
	models.NotifyTaskNotAssigned:          "An update on your application",
	models.NotifyTaskCompleted:            "Your opportunity is complete",
	models.NotifyTaskCompletedParticipant: "Thank you for participating",
	models.NotifyTaskCanceled:             "An opportunity you applied to was canceled",
	models.NotifyTaskApplied:              "Someone applied to your opportunity",
	models.NotifyTaskDue:                  "An opportunity is due soon",
}

// CreateNotification resolves the primary recipient (the admin when one
// is set, the user otherwise) and drops the event when that recipient
// has bounced. This is a hard filter, not a retry condition.
func (s *notificationService) CreateNotification(event models.NotificationEvent) {
	recipient := event.Model.User
	if event.Model.Admin != nil {
		recipient = event.Model.Admin
	}
	if recipient == nil {
		logger.Log.Warnf("[notify][skip] action=%s: no recipient", event.Action)
		return
	}
	if recipient.Bounced {
		logger.Log.Infof("[notify][skip] action=%s user_id=%d: recipient bounced", event.Action, recipient.ID)
		return
	}

	subject, ok := notificationSubjects[event.Action]
	if !ok {
		subject = event.Action
	}
	title := ""
	if event.Model.Task != nil {
		title = event.Model.Task.Title
	}
	body := fmt.Sprintf("<p>Hello %s,</p><p>%s: <strong>%s</strong></p>",
		recipient.Name, subject, title)
	if event.Model.Volunteers != "" {
		body += fmt.Sprintf("<p>Participants: %s</p>", event.Model.Volunteers)
	}

	if err := s.email.SendNotificationEmail(recipient.Email, subject, body); err != nil {
		logger.Log.Warnf("[notify][email][err] action=%s user_id=%d: %v", event.Action, recipient.ID, err)
	}
	if s.telegram != nil && recipient.TelegramChatID != nil {
		text := fmt.Sprintf("%s\n%s", subject, title)
		if err := s.telegram.SendMessage(*recipient.TelegramChatID, text); err != nil {
			logger.Log.Warnf("[notify][tg][err] action=%s user_id=%d: %v", event.Action, recipient.ID, err)
		}
	}
}
