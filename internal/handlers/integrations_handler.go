package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"opphub/internal/repositories"
	"opphub/internal/services"
	"opphub/pkg/logger"
)

const linkCodeTTL = 30 * time.Minute

// IntegrationsHandler wires the Telegram account-link flow: an
// authenticated user requests a one-time code, then sends it to the bot
// with /start or /link, which binds their chat id for notifications.
type IntegrationsHandler struct {
	tg    *services.TelegramService
	links repositories.TelegramLinkRepository
	users repositories.UserRepository
}

func NewIntegrationsHandler(
	tg *services.TelegramService,
	links repositories.TelegramLinkRepository,
	users repositories.UserRepository,
) *IntegrationsHandler {
	return &IntegrationsHandler{tg: tg, links: links, users: users}
}

type tgUpdate struct {
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// @Summary      Request a Telegram link code
// @Tags         Integrations
// @Produce      json
// @Router       /api/integrations/telegram/request-link [post]
func (h *IntegrationsHandler) RequestTelegramLink(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		logger.Log.Errorf("[tg][link][err] rng: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate code"})
		return
	}
	code := strings.ToUpper(hex.EncodeToString(buf))

	link, err := h.links.Create(c.Request.Context(), userID, code, linkCodeTTL)
	if err != nil {
		logger.Log.Errorf("[tg][link][err] create code for user_id=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create link code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       link.Code,
		"expires_at": link.ExpiresAt,
		"hint":       "Open a chat with the bot and send: /start " + link.Code,
	})
}

// Webhook handles bot updates. Always answers 200 so Telegram does not
// retry; failures are reported back to the chat instead.
func (h *IntegrationsHandler) Webhook(c *gin.Context) {
	if h.tg == nil {
		c.Status(http.StatusOK)
		return
	}

	var up tgUpdate
	if err := c.ShouldBindJSON(&up); err != nil || up.Message == nil {
		c.Status(http.StatusOK)
		return
	}

	text := strings.TrimSpace(up.Message.Text)
	chatID := up.Message.Chat.ID

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/link"):
		raw := text
		raw = strings.TrimPrefix(raw, "/start")
		raw = strings.TrimPrefix(raw, "/link")
		h.handleLinkCode(c, chatID, raw)
	default:
		_ = h.tg.SendMessage(chatID, "Send <code>/start &lt;code&gt;</code> with the code from your account page to link notifications.")
	}

	c.Status(http.StatusOK)
}

func (h *IntegrationsHandler) handleLinkCode(c *gin.Context, chatID int64, raw string) {
	code, ok := normalizeLinkCode(raw)
	if !ok {
		_ = h.tg.SendMessage(chatID, "That code does not look right. Copy the 32-character code from your account page and send <code>/start &lt;code&gt;</code>.")
		return
	}

	link, err := h.links.UseByCode(c.Request.Context(), code)
	if err != nil {
		logger.Log.Infof("[tg][link][deny] chat_id=%d: %v", chatID, err)
		_ = h.tg.SendMessage(chatID, "That code is invalid or expired. Request a new one from your account page.")
		return
	}

	if err := h.users.SetTelegramChatID(c.Request.Context(), link.UserID, chatID); err != nil {
		logger.Log.Errorf("[tg][link][err] bind user_id=%d chat_id=%d: %v", link.UserID, chatID, err)
		_ = h.tg.SendMessage(chatID, "Could not link your account, please try again later.")
		return
	}

	logger.Log.Infof("[tg][link][ok] user_id=%d chat_id=%d", link.UserID, chatID)
	_ = h.tg.SendMessage(chatID, "Done! You will now receive opportunity updates here.")
}

func normalizeLinkCode(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) != 32 {
		return "", false
	}
	return code, true
}
