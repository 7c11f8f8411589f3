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

type clientStore struct {
	db database.DBConnection
}

func (s *clientStore) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	meta, err := s.db.Collections["clients"].CreateDocument(ctx, c)
	if err != nil {
		// The unique index on email surfaces as a conflict.
		if shared.IsConflict(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, err
	}
	c.Key = meta.Key
	return c, nil
}

func (s *clientStore) GetByKey(ctx context.Context, key string) (*model.Client, error) {
	query := `
		FOR c IN clients
			FILTER c._key == @key
			LIMIT 1
			RETURN c
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, store.ErrNotFound
	}

	var c model.Client
	meta, err := cursor.ReadDocument(ctx, &c)
	if err != nil {
		return nil, err
	}
	c.Key = meta.Key
	return &c, nil
}

func (s *clientStore) List(ctx context.Context) ([]model.Client, error) {
	query := `
		FOR c IN clients
			SORT c.created_at DESC
			RETURN c
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var clients []model.Client
	for cursor.HasMore() {
		var c model.Client
		meta, err := cursor.ReadDocument(ctx, &c)
		if err != nil {
			continue
		}
		c.Key = meta.Key
		clients = append(clients, c)
	}
	return clients, nil
}

func (s *clientStore) Update(ctx context.Context, c *model.Client) error {
	c.UpdatedAt = time.Now()
	query := `
		FOR c IN clients
			FILTER c._key == @key
			UPDATE c WITH {
				first_name: @first_name,
				last_name: @last_name,
				email: @email,
				phone: @phone,
				date_of_birth: @date_of_birth,
				address: @address,
				program_key: @program_key,
				updated_at: @updated_at
			} IN clients
			RETURN NEW
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key":           c.Key,
			"first_name":    c.FirstName,
			"last_name":     c.LastName,
			"email":         c.Email,
			"phone":         c.Phone,
			"date_of_birth": c.DateOfBirth,
			"address":       c.Address,
			"program_key":   c.ProgramKey,
			"updated_at":    c.UpdatedAt,
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

func (s *clientStore) Delete(ctx context.Context, key string) error {
	query := `
		FOR c IN clients
			FILTER c._key == @key
			REMOVE c IN clients
			RETURN OLD
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

func (s *clientStore) Count(ctx context.Context) (int, error) {
	return s.count(ctx, `RETURN LENGTH(clients)`)
}

func (s *clientStore) CountByProgram(ctx context.Context) (map[string]int, error) {
	query := `
		FOR c IN clients
			FILTER c.program_key != null AND c.program_key != ""
			COLLECT program = c.program_key WITH COUNT INTO total
			RETURN { program: program, total: total }
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	counts := make(map[string]int)
	for cursor.HasMore() {
		var row struct {
			Program string `json:"program"`
			Total   int    `json:"total"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err == nil {
			counts[row.Program] = row.Total
		}
	}
	return counts, nil
}

func (s *clientStore) count(ctx context.Context, query string) (int, error) {
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
