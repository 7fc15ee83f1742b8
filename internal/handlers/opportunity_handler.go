package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opphub/internal/authz"
	"opphub/internal/models"
	"opphub/internal/services"
	"opphub/pkg/logger"
)

type OpportunityHandler struct {
	service services.OpportunityService
	users   services.UserService
}

func NewOpportunityHandler(service services.OpportunityService, users services.UserService) *OpportunityHandler {
	return &OpportunityHandler{service: service, users: users}
}

// @Summary      Create an opportunity
// @Tags         Opportunities
// @Accept       json
// @Produce      json
// @Param        opportunity  body      models.OpportunityAttributes  true  "Attributes"
// @Success      201  {object}  models.Opportunity
// @Router       /api/opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)

	var attrs models.OpportunityAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// only admins may post on someone else's behalf
	if attrs.OwnerID == 0 || !authz.IsAdmin(roleID) {
		attrs.OwnerID = userID
	}

	opp, err := h.service.Create(c.Request.Context(), &attrs)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[opportunity][create][ok] id=%d state=%q owner=%d", opp.ID, opp.State, opp.OwnerID)
	c.JSON(http.StatusCreated, opp)

	h.service.DispatchLifecycleNotifications(c.Request.Context(), opp, "", true)
}

// @Summary      Get an opportunity
// @Tags         Opportunities
// @Produce      json
// @Param        id  path  int  true  "Opportunity ID"
// @Success      200  {object}  models.Opportunity
// @Router       /api/opportunities/{id} [get]
func (h *OpportunityHandler) GetByID(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	opp, err := h.service.GetByID(c.Request.Context(), id, userID != 0)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// @Summary      List opportunities visible to the caller
// @Tags         Opportunities
// @Produce      json
// @Success      200  {array}  models.Opportunity
// @Router       /api/opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var viewer *models.User
	if userID != 0 {
		u, err := h.users.GetByID(c.Request.Context(), userID)
		if err == nil {
			viewer = u
		}
	}

	opps, err := h.service.List(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opps)
}

// @Summary      Update an opportunity
// @Tags         Opportunities
// @Accept       json
// @Produce      json
// @Param        id           path  int                           true  "Opportunity ID"
// @Param        opportunity  body  models.OpportunityAttributes  true  "Attributes"
// @Success      200  {object}  models.Opportunity
// @Router       /api/opportunities/{id} [put]
func (h *OpportunityHandler) Update(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	caller := &models.User{ID: userID, RoleID: roleID}
	if u, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
		caller = u
	}
	if !h.service.CanUpdateOpportunity(c.Request.Context(), caller, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var attrs models.OpportunityAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opp, prevState, err := h.service.Update(c.Request.Context(), id, &attrs)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[opportunity][update][ok] id=%d state=%q prev=%q", opp.ID, opp.State, prevState)
	c.JSON(http.StatusOK, opp)

	h.service.DispatchLifecycleNotifications(c.Request.Context(), opp, prevState, prevState != opp.State)
}

// @Summary      Change opportunity state
// @Tags         Opportunities
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Opportunity ID"
// @Router       /api/opportunities/{id}/state [put]
func (h *OpportunityHandler) UpdateState(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	caller := &models.User{ID: userID, RoleID: roleID}
	if u, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
		caller = u
	}
	if !h.service.CanAdministerOpportunity(c.Request.Context(), caller, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var body struct {
		State models.OpportunityState `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opp, prevState, err := h.service.UpdateState(c.Request.Context(), id, body.State)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[opportunity][state][ok] id=%d %q -> %q", opp.ID, prevState, opp.State)
	c.JSON(http.StatusOK, opp)

	h.service.DispatchLifecycleNotifications(c.Request.Context(), opp, prevState, prevState != opp.State)
}

// @Summary      Publish an opportunity
// @Tags         Opportunities
// @Produce      json
// @Param        id  path  int  true  "Opportunity ID"
// @Router       /api/opportunities/{id}/publish [post]
func (h *OpportunityHandler) Publish(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	caller := &models.User{ID: userID, RoleID: roleID}
	if u, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
		caller = u
	}
	if !h.service.CanAdministerOpportunity(c.Request.Context(), caller, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	opp, err := h.service.Publish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[opportunity][publish][ok] id=%d", opp.ID)
	c.JSON(http.StatusOK, opp)
}

// @Summary      Copy an opportunity into a new draft
// @Tags         Opportunities
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Source opportunity ID"
// @Router       /api/opportunities/{id}/copy [post]
func (h *OpportunityHandler) Copy(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	newID, err := h.service.Copy(c.Request.Context(), id, body.Title, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[opportunity][copy][ok] source=%d new=%d", id, newID)
	c.JSON(http.StatusCreated, gin.H{"id": newID})
}

// @Summary      Delete an opportunity
// @Tags         Opportunities
// @Param        id  path  int  true  "Opportunity ID"
// @Success      204
// @Router       /api/opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	caller := &models.User{ID: userID, RoleID: roleID}
	if u, err := h.users.GetByID(c.Request.Context(), userID); err == nil {
		caller = u
	}
	if !h.service.CanUpdateOpportunity(c.Request.Context(), caller, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	logger.Log.Infof("[opportunity][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}
