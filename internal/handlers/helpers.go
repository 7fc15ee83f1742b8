package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"opphub/internal/apperrors"
	"opphub/pkg/logger"
)

// tolerant of the value types the auth middleware may store
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID int64, roleID int) {
	if id, ok := getInt64FromCtx(c, "user_id"); ok {
		userID = id
	}
	if id, ok := getInt64FromCtx(c, "role_id"); ok {
		roleID = int(id)
	}
	return
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto HTTP. Persistence
// details never leave the process; clients get the generic wording.
func respondError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	var maxErr *apperrors.MaximumReachedError
	if errors.As(err, &maxErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "maximum number of selections reached",
			"application_id": maxErr.ApplicationID,
		})
		return
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var perr *apperrors.PersistenceError
	if errors.As(err, &perr) {
		logger.Log.Errorf("[http][persistence][err] %s: %v", perr.Op, perr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.GenericMessage})
		return
	}
	logger.Log.Errorf("[http][err] %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.GenericMessage})
}
