package jobs

import (
	"context"
	"strings"
	"time"

	"opphub/internal/models"
	"opphub/internal/repositories"
	"opphub/internal/services"
	"opphub/pkg/logger"
)

// DueNotifier sweeps once a day for assigned opportunities whose
// completion date falls on one of the sweep days and reminds their
// owners.
type DueNotifier struct {
	opps     repositories.OpportunityRepository
	vols     repositories.VolunteerRepository
	users    repositories.UserRepository
	notifier services.NotificationService
	interval time.Duration
}

func NewDueNotifier(
	opps repositories.OpportunityRepository,
	vols repositories.VolunteerRepository,
	users repositories.UserRepository,
	notifier services.NotificationService,
) *DueNotifier {
	return &DueNotifier{
		opps:     opps,
		vols:     vols,
		users:    users,
		notifier: notifier,
		interval: 24 * time.Hour,
	}
}

// Run blocks until ctx is canceled. One sweep fires immediately on
// start so a restart does not skip a day.
func (n *DueNotifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("[jobs][due] stopped")
			return
		case <-ticker.C:
			n.sweep(ctx)
		}
	}
}

// Reminders fire on the due day itself and again this many days ahead.
var dueSweepOffsets = []int{0, 3}

func (n *DueNotifier) sweep(ctx context.Context) {
	for _, offset := range dueSweepOffsets {
		day := time.Now().AddDate(0, 0, offset)
		opps, err := n.opps.ListDueBy(ctx, day, models.StateAssigned)
		if err != nil {
			logger.Log.Errorf("[jobs][due][err] list: %v", err)
			continue
		}
		logger.Log.Infof("[jobs][due] sweep day=%s count=%d", day.Format("2006-01-02"), len(opps))

		for i := range opps {
			n.remind(ctx, &opps[i])
		}
	}
}

// remind sends the owner a due-soon ping with the participant roster.
// Opportunities nobody works on are skipped.
func (n *DueNotifier) remind(ctx context.Context, opp *models.Opportunity) {
	vols, err := n.vols.FindByOpportunity(ctx, opp.ID)
	if err != nil {
		logger.Log.Warnf("[jobs][due][err] id=%d: load volunteers: %v", opp.ID, err)
		return
	}
	var names []string
	for _, v := range vols {
		if v.Assigned {
			names = append(names, v.Name)
		}
	}
	if len(names) == 0 {
		return
	}

	owner, err := n.users.FindByID(ctx, opp.OwnerID)
	if err != nil || owner == nil {
		logger.Log.Warnf("[jobs][due][err] id=%d: load owner: %v", opp.ID, err)
		return
	}

	n.notifier.CreateNotification(models.NotificationEvent{
		Action: models.NotifyTaskDue,
		Model: models.NotificationModel{
			Task:       opp,
			User:       owner,
			Volunteers: strings.Join(names, ", "),
		},
	})
}
