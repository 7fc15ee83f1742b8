package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opphub/internal/authz"
	"opphub/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// @Summary      Get the caller's profile
// @Tags         Users
// @Produce      json
// @Success      200  {object}  models.User
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Get a user by id
// @Tags         Users
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  models.User
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	callerID, roleID := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id != callerID && !authz.IsAdmin(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
