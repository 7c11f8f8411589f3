// Package graphql assembles the root schema from the module query fields.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/thegr8lewis/health-backend/graphql/modules/dashboard"
	"github.com/thegr8lewis/health-backend/internal/store"
)

// CreateSchema builds the root query schema over the given store.
func CreateSchema(st store.Store) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range dashboard.GetQueryFields(st) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
