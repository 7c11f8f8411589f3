package arango

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

type resetTokenStore struct {
	db database.DBConnection
}

func (s *resetTokenStore) Create(ctx context.Context, t *model.PasswordResetToken) error {
	meta, err := s.db.Collections["password_resets"].CreateDocument(ctx, t)
	if err != nil {
		return err
	}
	t.Key = meta.Key
	return nil
}

func (s *resetTokenStore) LatestUnusedByCode(ctx context.Context, email, code string) (*model.PasswordResetToken, error) {
	query := `
		FOR t IN password_resets
			FILTER LOWER(t.email) == LOWER(@email) AND t.code == @code AND t.used == false
			SORT t.created_at DESC
			LIMIT 1
			RETURN t
	`
	return s.queryOne(ctx, query, map[string]interface{}{"email": email, "code": code})
}

func (s *resetTokenStore) GetUnusedByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	query := `
		FOR t IN password_resets
			FILTER t.token == @token AND t.used == false
			LIMIT 1
			RETURN t
	`
	return s.queryOne(ctx, query, map[string]interface{}{"token": token})
}

func (s *resetTokenStore) queryOne(ctx context.Context, query string, bindVars map[string]interface{}) (*model.PasswordResetToken, error) {
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, store.ErrNotFound
	}

	var t model.PasswordResetToken
	meta, err := cursor.ReadDocument(ctx, &t)
	if err != nil {
		return nil, err
	}
	t.Key = meta.Key
	return &t, nil
}

func (s *resetTokenStore) MarkAllUsedForUser(ctx context.Context, userKey string) error {
	query := `
		FOR t IN password_resets
			FILTER t.user_key == @user_key AND t.used == false
			UPDATE t WITH { used: true } IN password_resets
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"user_key": userKey},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

func (s *resetTokenStore) MarkUsed(ctx context.Context, key string) error {
	query := `
		FOR t IN password_resets
			FILTER t._key == @key
			UPDATE t WITH { used: true } IN password_resets
			RETURN NEW
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return store.ErrNotFound
	}
	return nil
}
