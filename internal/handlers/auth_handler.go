package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"opphub/internal/middleware"
	"opphub/internal/models"
	"opphub/internal/services"
	"opphub/pkg/logger"
)

const accessTokenTTL = 24 * time.Hour

type AuthHandler struct {
	users     services.UserService
	jwtSecret []byte
}

func NewAuthHandler(users services.UserService, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

// @Summary      Log in
// @Description  Authenticates a user and returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.Infof("[auth][login][deny] email=%q", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.ID, user.RoleID, accessTokenTTL)
	if err != nil {
		logger.Log.Errorf("[auth][login][err] sign token for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	logger.Log.Infof("[auth][login][ok] user_id=%d role=%d", user.ID, user.RoleID)
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": token,
	})
}

// @Summary      Register
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string         `json:"name" binding:"required"`
		Email    string         `json:"email" binding:"required"`
		Password string         `json:"password" binding:"required"`
		Agency   *models.Agency `json:"agency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Agency)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.ID, user.RoleID, accessTokenTTL)
	if err != nil {
		logger.Log.Errorf("[auth][register][err] sign token for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	logger.Log.Infof("[auth][register][ok] user_id=%d", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": token,
	})
}
