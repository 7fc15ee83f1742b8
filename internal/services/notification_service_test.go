package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opphub/internal/models"
)

func TestCreateNotification(t *testing.T) {
	task := &models.Opportunity{ID: 1, Title: "Beach cleanup"}

	t.Run("sends an email to the recipient", func(t *testing.T) {
		email := &fakeEmail{}
		svc := NewNotificationService(email, nil)

		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskOpened,
			Model: models.NotificationModel{
				Task: task,
				User: &models.User{ID: 2, Name: "Dana", Email: "dana@example.com"},
			},
		})

		require.Len(t, email.sent, 1)
		assert.Equal(t, "dana@example.com", email.sent[0].to)
		assert.Contains(t, email.sent[0].body, "Beach cleanup")
	})

	t.Run("a bounced recipient gets nothing", func(t *testing.T) {
		email := &fakeEmail{}
		svc := NewNotificationService(email, nil)

		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskOpened,
			Model: models.NotificationModel{
				Task: task,
				User: &models.User{ID: 2, Email: "dana@example.com", Bounced: true},
			},
		})

		assert.Empty(t, email.sent)
	})

	t.Run("the admin is the recipient when one is set", func(t *testing.T) {
		email := &fakeEmail{}
		svc := NewNotificationService(email, nil)

		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskSubmittedAdmin,
			Model: models.NotificationModel{
				Task:  task,
				User:  &models.User{ID: 2, Email: "owner@example.com"},
				Admin: &models.User{ID: 3, Email: "admin@example.com"},
			},
		})

		require.Len(t, email.sent, 1)
		assert.Equal(t, "admin@example.com", email.sent[0].to)
	})

	t.Run("a bounced admin suppresses the event even with a clean user", func(t *testing.T) {
		email := &fakeEmail{}
		svc := NewNotificationService(email, nil)

		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskSubmittedAdmin,
			Model: models.NotificationModel{
				Task:  task,
				User:  &models.User{ID: 2, Email: "owner@example.com"},
				Admin: &models.User{ID: 3, Email: "admin@example.com", Bounced: true},
			},
		})

		assert.Empty(t, email.sent)
	})

	t.Run("delivery failure is swallowed", func(t *testing.T) {
		email := &fakeEmail{err: errors.New("smtp timeout")}
		svc := NewNotificationService(email, nil)

		assert.NotPanics(t, func() {
			svc.CreateNotification(models.NotificationEvent{
				Action: models.NotifyTaskOpened,
				Model: models.NotificationModel{
					Task: task,
					User: &models.User{ID: 2, Email: "dana@example.com"},
				},
			})
		})
	})

	t.Run("telegram goes out only to linked recipients", func(t *testing.T) {
		email := &fakeEmail{}
		tg := &fakeTelegram{}
		svc := NewNotificationService(email, tg)
		chatID := int64(555)

		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskOpened,
			Model: models.NotificationModel{
				Task: task,
				User: &models.User{ID: 2, Email: "linked@example.com", TelegramChatID: &chatID},
			},
		})
		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskOpened,
			Model: models.NotificationModel{
				Task: task,
				User: &models.User{ID: 3, Email: "unlinked@example.com"},
			},
		})

		assert.Len(t, email.sent, 2)
		assert.Len(t, tg.msgs, 1)
	})

	t.Run("the participant roster lands in the body", func(t *testing.T) {
		email := &fakeEmail{}
		svc := NewNotificationService(email, nil)

		svc.CreateNotification(models.NotificationEvent{
			Action: models.NotifyTaskDue,
			Model: models.NotificationModel{
				Task:       task,
				User:       &models.User{ID: 2, Email: "owner@example.com"},
				Volunteers: "Dana, Lee",
			},
		})

		require.Len(t, email.sent, 1)
		assert.Contains(t, email.sent[0].body, "Dana, Lee")
	})
}
