// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"context"
	"time"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

// ResolveOverview handles fetching the high-level dashboard metrics
func ResolveOverview(ctx context.Context, st store.Store) (interface{}, error) {
	totalClients, err := st.Clients.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalAdmins, err := st.Users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	totalPrograms, err := st.Programs.Count(ctx, "")
	if err != nil {
		return nil, err
	}
	activePrograms, err := st.Programs.Count(ctx, model.ProgramActive)
	if err != nil {
		return nil, err
	}
	totalAccess, err := st.Audit.CountClientAccess(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_clients":       totalClients,
		"total_admins":        totalAdmins,
		"total_programs":      totalPrograms,
		"active_programs":     activePrograms,
		"total_access_events": totalAccess,
	}, nil
}

// ResolveEnrollment returns client counts grouped by program
func ResolveEnrollment(ctx context.Context, st store.Store) (interface{}, error) {
	counts, err := st.Clients.CountByProgram(ctx)
	if err != nil {
		return nil, err
	}

	programs, err := st.Programs.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, map[string]interface{}{
			"program_key":  p.Key,
			"program_name": p.Name,
			"clients":      counts[p.Key],
		})
	}
	return rows, nil
}

// ResolveRecentAccess returns the latest client profile access events
func ResolveRecentAccess(ctx context.Context, st store.Store, limit int) (interface{}, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	logs, err := st.Audit.ListClientAccess(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, map[string]interface{}{
			"client_key":     l.ClientKey,
			"accessor_email": l.AccessorEmail,
			"accessed_at":    l.AccessedAt.UTC().Format(time.RFC3339),
			"remote_addr":    l.RemoteAddr,
			"location":       l.Location,
		})
	}
	return rows, nil
}
