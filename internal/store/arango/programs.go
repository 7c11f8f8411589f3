package arango

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

type programStore struct {
	db database.DBConnection
}

func (s *programStore) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	meta, err := s.db.Collections["programs"].CreateDocument(ctx, p)
	if err != nil {
		return nil, err
	}
	p.Key = meta.Key
	return p, nil
}

func (s *programStore) GetByKey(ctx context.Context, key string) (*model.Program, error) {
	query := `
		FOR p IN programs
			FILTER p._key == @key
			LIMIT 1
			RETURN p
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

	var p model.Program
	meta, err := cursor.ReadDocument(ctx, &p)
	if err != nil {
		return nil, err
	}
	p.Key = meta.Key
	return &p, nil
}

func (s *programStore) List(ctx context.Context) ([]model.Program, error) {
	query := `
		FOR p IN programs
			SORT p.name ASC
			RETURN p
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var programs []model.Program
	for cursor.HasMore() {
		var p model.Program
		meta, err := cursor.ReadDocument(ctx, &p)
		if err != nil {
			continue
		}
		p.Key = meta.Key
		programs = append(programs, p)
	}
	return programs, nil
}

func (s *programStore) Update(ctx context.Context, p *model.Program) error {
	query := `
		FOR p IN programs
			FILTER p._key == @key
			UPDATE p WITH {
				name: @name,
				description: @description,
				duration: @duration,
				category: @category,
				status: @status
			} IN programs
			RETURN NEW
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key":         p.Key,
			"name":        p.Name,
			"description": p.Description,
			"duration":    p.Duration,
			"category":    p.Category,
			"status":      p.Status,
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

func (s *programStore) Delete(ctx context.Context, key string) error {
	query := `
		FOR p IN programs
			FILTER p._key == @key
			REMOVE p IN programs
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

func (s *programStore) Count(ctx context.Context, status string) (int, error) {
	query := `
		RETURN LENGTH(
			FOR p IN programs
				FILTER @status == "" OR p.status == @status
				RETURN 1
		)
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"status": status},
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
