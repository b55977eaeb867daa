package service

import (
	"context"
	"fmt"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/api"
	"github.com/NouhaAwachri/Zenfit-Trainer-App/internal/model"
)

// Periods accepted by the dashboard endpoint.
var DashboardPeriods = []string{"7_days", "30_days", "90_days", "all_time"}

// DashboardService fetches the aggregated KPI view. The metrics are
// owned entirely by the backend; this is a read-only snapshot.
type DashboardService struct {
	client *api.CoachClient
	uid    string
}

func NewDashboardService(client *api.CoachClient, uid string) *DashboardService {
	return &DashboardService{client: client, uid: uid}
}

// Fetch returns the dashboard for the given period (defaults to 30_days).
func (s *DashboardService) Fetch(ctx context.Context, period string) (model.Dashboard, error) {
	if period == "" {
		period = "30_days"
	}
	valid := false
	for _, p := range DashboardPeriods {
		if p == period {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid period %q", period)
	}
	return s.client.Dashboard(ctx, s.uid, period)
}
