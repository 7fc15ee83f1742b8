package handlers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"opphub/internal/services"
	"opphub/pkg/logger"
)

type ReportHandler struct {
	service  services.ReportService
	filesDir string
}

func NewReportHandler(service services.ReportService, filesDir string) *ReportHandler {
	return &ReportHandler{service: service, filesDir: filesDir}
}

// @Summary      Download a community opportunity digest PDF
// @Tags         Reports
// @Produce      application/pdf
// @Param        community_id  path  int  true  "Community ID"
// @Router       /api/reports/communities/{community_id}/digest [get]
func (h *ReportHandler) CommunityDigest(c *gin.Context) {
	communityID, ok := paramID(c, "community_id")
	if !ok {
		return
	}

	path, err := h.service.CommunityDigest(c.Request.Context(), communityID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Log.Infof("[report][digest][ok] community_id=%d file=%s", communityID, path)
	abs := filepath.Join(h.filesDir, filepath.Base(path))
	c.FileAttachment(abs, filepath.Base(path))
}
