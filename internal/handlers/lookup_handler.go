package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opphub/internal/repositories"
	"opphub/pkg/logger"
)

type LookupHandler struct {
	repo repositories.LookupRepository
}

func NewLookupHandler(repo repositories.LookupRepository) *LookupHandler {
	return &LookupHandler{repo: repo}
}

// @Summary      List lookup codes of one type
// @Tags         Lookup
// @Produce      json
// @Param        code_type  path  string  true  "Code type"
// @Success      200  {array}  models.LookupCode
// @Router       /api/lookup/{code_type} [get]
func (h *LookupHandler) ByCodeType(c *gin.Context) {
	codeType := c.Param("code_type")
	if codeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code_type"})
		return
	}

	codes, err := h.repo.FindByCodeType(c.Request.Context(), codeType)
	if err != nil {
		logger.Log.Errorf("[lookup][err] code_type=%q: %v", codeType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lookup codes"})
		return
	}
	c.JSON(http.StatusOK, codes)
}

// The fixed code-type bundle the application wizard loads in one call.
var applicationEnumerations = map[string]string{
	"languageProficiencies": "language_proficiency",
	"academicHonors":        "academic_honors",
	"degreeTypes":           "degree_type",
	"referenceTypes":        "reference_type",
	"securityClearances":    "security_clearance",
}

// @Summary      Application form enumerations
// @Description  Returns the lookup code sets used by the application form in a single bundle
// @Tags         Lookup
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/lookup/application/enumerations [get]
func (h *LookupHandler) ApplicationEnumerations(c *gin.Context) {
	if c.Param("code_type") != "application" {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown enumeration set"})
		return
	}

	out := gin.H{}
	for key, codeType := range applicationEnumerations {
		codes, err := h.repo.FindByCodeType(c.Request.Context(), codeType)
		if err != nil {
			logger.Log.Errorf("[lookup][err] code_type=%q: %v", codeType, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lookup codes"})
			return
		}
		out[key] = codes
	}
	c.JSON(http.StatusOK, out)
}
