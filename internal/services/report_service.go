package services

import (
	"context"
	"fmt"
	"time"

	"opphub/internal/apperrors"
	"opphub/internal/pdf"
	"opphub/internal/repositories"
	"opphub/pkg/logger"
)

// ReportService builds the PDF digest a community manager downloads to
// review the state of their community's opportunities.
type ReportService interface {
	CommunityDigest(ctx context.Context, communityID int64) (string, error)
}

type reportService struct {
	comms repositories.CommunityRepository
	opps  repositories.OpportunityRepository
	vols  repositories.VolunteerRepository
	users repositories.UserRepository
	gen   pdf.Generator
}

func NewReportService(
	comms repositories.CommunityRepository,
	opps repositories.OpportunityRepository,
	vols repositories.VolunteerRepository,
	users repositories.UserRepository,
	gen pdf.Generator,
) ReportService {
	return &reportService{comms: comms, opps: opps, vols: vols, users: users, gen: gen}
}

func (s *reportService) CommunityDigest(ctx context.Context, communityID int64) (string, error) {
	community, err := s.comms.FindByID(ctx, communityID)
	if err != nil {
		return "", apperrors.Persistence("load community", err)
	}
	if community == nil {
		return "", apperrors.ErrNotFound
	}

	opps, err := s.opps.ListByCommunity(ctx, communityID)
	if err != nil {
		return "", apperrors.Persistence("list community opportunities", err)
	}

	rows := make([]pdf.DigestRow, 0, len(opps))
	for _, opp := range opps {
		ownerName := ""
		if owner, err := s.users.FindByID(ctx, opp.OwnerID); err == nil && owner != nil {
			ownerName = owner.Name
		}
		volunteers := 0
		if vols, err := s.vols.FindByOpportunity(ctx, opp.ID); err == nil {
			volunteers = len(vols)
		} else {
			logger.Log.Warnf("[report][digest] opportunity_id=%d: failed to count volunteers: %v", opp.ID, err)
		}
		rows = append(rows, pdf.DigestRow{
			Title:      opp.Title,
			State:      string(opp.State),
			OwnerName:  ownerName,
			Volunteers: volunteers,
			CompleteBy: opp.CompleteBy,
		})
	}

	now := time.Now()
	path, err := s.gen.GenerateCommunityDigest(pdf.DigestData{
		CommunityName: community.Name,
		GeneratedAt:   now,
		Rows:          rows,
		Filename:      fmt.Sprintf("digest_community_%d_%s.pdf", community.ID, now.Format("2006-01-02")),
	})
	if err != nil {
		return "", fmt.Errorf("generate digest: %w", err)
	}
	return path, nil
}
