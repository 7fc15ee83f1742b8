package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opphub/internal/models"
	"opphub/internal/services"
	"opphub/pkg/logger"
)

type ApplicationHandler struct {
	service services.ApplicationService
}

func NewApplicationHandler(service services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// @Summary      Select an opportunity
// @Description  Adds an opportunity to the caller's application for the owning community's current cycle, creating the application if needed
// @Tags         Applications
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Application
// @Failure      409  {object}  map[string]interface{}  "Maximum selections reached; body carries application_id"
// @Router       /api/applications/apply [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var body struct {
		TaskID int64 `json:"task_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.service.Apply(c.Request.Context(), userID, body.TaskID)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[application][apply][ok] id=%d user=%d task=%d", app.ID, userID, body.TaskID)
	c.JSON(http.StatusOK, app)
}

// @Summary      Get the caller's application
// @Tags         Applications
// @Produce      json
// @Param        id  path  int  true  "Application ID"
// @Success      200  {object}  models.Application
// @Router       /api/applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	app, err := h.service.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// @Summary      Remove a selection
// @Description  Deletes one selection and resets the application to step 1
// @Tags         Applications
// @Produce      json
// @Param        id       path  int  true  "Application ID"
// @Param        task_id  path  int  true  "Opportunity ID"
// @Router       /api/applications/{id}/tasks/{task_id} [delete]
func (h *ApplicationHandler) DeleteTaskSelection(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	taskID, ok := paramID(c, "task_id")
	if !ok {
		return
	}

	app, err := h.service.DeleteTaskSelection(c.Request.Context(), userID, id, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[application][unselect][ok] id=%d task=%d", id, taskID)
	c.JSON(http.StatusOK, app)
}

// @Summary      Swap the rank of two selections
// @Tags         Applications
// @Accept       json
// @Param        id  path  int  true  "Application ID"
// @Success      204
// @Router       /api/applications/{id}/tasks/swap [post]
func (h *ApplicationHandler) SwapTaskOrder(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		TaskAID int64 `json:"task_a_id" binding:"required"`
		TaskBID int64 `json:"task_b_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SwapTaskOrder(c.Request.Context(), userID, id, body.TaskAID, body.TaskBID); err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[application][swap][ok] id=%d a=%d b=%d", id, body.TaskAID, body.TaskBID)
	c.Status(http.StatusNoContent)
}

// @Summary      Replace the application's skill set
// @Tags         Applications
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Application ID"
// @Router       /api/applications/{id}/skills [put]
func (h *ApplicationHandler) SaveSkills(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Skills []models.TagInput `json:"skills"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	skills, err := h.service.SaveSkills(c.Request.Context(), userID, id, body.Skills)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}
