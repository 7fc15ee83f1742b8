package services

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"opphub/pkg/logger"
)

// TelegramService pushes short notification pings to users who linked a
// Telegram chat. Delivery is best-effort.
type TelegramService struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramService(botToken string) (*TelegramService, error) {
	if botToken == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &TelegramService{bot: bot}, nil
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if t == nil || t.bot == nil || chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		logger.Log.Warnf("[tg][send][err] chat_id=%d: %v", chatID, err)
		return err
	}
	return nil
}

// Updates returns the long-poll update channel for the /start link flow.
func (t *TelegramService) Updates() tgbotapi.UpdatesChannel {
	if t == nil || t.bot == nil {
		return nil
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return t.bot.GetUpdatesChan(u)
}
