package arango

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

type userStore struct {
	db database.DBConnection
}

func (s *userStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	meta, err := s.db.Collections["users"].CreateDocument(ctx, u)
	if err != nil {
		// The unique index on email surfaces as a conflict.
		if shared.IsConflict(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, err
	}
	u.Key = meta.Key
	return u, nil
}

func (s *userStore) GetByKey(ctx context.Context, key string) (*model.User, error) {
	query := `
		FOR u IN users
			FILTER u._key == @key
			LIMIT 1
			RETURN u
	`
	return s.queryOne(ctx, query, map[string]interface{}{"key": key})
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		FOR u IN users
			FILTER LOWER(u.email) == LOWER(@email)
			LIMIT 1
			RETURN u
	`
	return s.queryOne(ctx, query, map[string]interface{}{"email": email})
}

func (s *userStore) queryOne(ctx context.Context, query string, bindVars map[string]interface{}) (*model.User, error) {
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, store.ErrNotFound
	}

	var u model.User
	meta, err := cursor.ReadDocument(ctx, &u)
	if err != nil {
		return nil, err
	}
	u.Key = meta.Key
	return &u, nil
}

func (s *userStore) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now()
	query := `
		FOR u IN users
			FILTER u._key == @key
			UPDATE u WITH {
				username: @username,
				email: @email,
				password_hash: @password_hash,
				role: @role,
				is_active: @is_active,
				updated_at: @updated_at
			} IN users
			RETURN NEW
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key":           u.Key,
			"username":      u.Username,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"role":          string(u.Role),
			"is_active":     u.IsActive,
			"updated_at":    u.UpdatedAt,
		},
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

func (s *userStore) CountByRole(ctx context.Context, role model.Role) (int, error) {
	query := `
		RETURN LENGTH(
			FOR u IN users
				FILTER u.role == @role
				RETURN 1
		)
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"role": string(role)},
	})
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
