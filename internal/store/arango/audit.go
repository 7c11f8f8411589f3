package arango

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/model"
)

type auditStore struct {
	db database.DBConnection
}

func (s *auditStore) AppendAdminCreation(ctx context.Context, l *model.AdminCreationLog) error {
	meta, err := s.db.Collections["admin_creation_logs"].CreateDocument(ctx, l)
	if err != nil {
		return err
	}
	l.Key = meta.Key
	return nil
}

func (s *auditStore) ListAdminCreations(ctx context.Context) ([]model.AdminCreationLog, error) {
	query := `
		FOR l IN admin_creation_logs
			SORT l.created_at DESC
			RETURN l
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var logs []model.AdminCreationLog
	for cursor.HasMore() {
		var l model.AdminCreationLog
		meta, err := cursor.ReadDocument(ctx, &l)
		if err != nil {
			continue
		}
		l.Key = meta.Key
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *auditStore) AppendClientAccess(ctx context.Context, l *model.ClientAccessLog) error {
	meta, err := s.db.Collections["client_access_logs"].CreateDocument(ctx, l)
	if err != nil {
		return err
	}
	l.Key = meta.Key
	return nil
}

func (s *auditStore) ListClientAccess(ctx context.Context, limit int) ([]model.ClientAccessLog, error) {
	query := `
		FOR l IN client_access_logs
			SORT l.accessed_at DESC
			LIMIT @limit
			RETURN l
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"limit": limit},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var logs []model.ClientAccessLog
	for cursor.HasMore() {
		var l model.ClientAccessLog
		meta, err := cursor.ReadDocument(ctx, &l)
		if err != nil {
			continue
		}
		l.Key = meta.Key
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *auditStore) CountClientAccess(ctx context.Context) (int, error) {
	query := `RETURN LENGTH(client_access_logs)`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	var count int
	if _, err := cursor.ReadDocument(ctx, &count); err != nil {
		return 0, err
	}
	return count, nil
}
