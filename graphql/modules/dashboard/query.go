// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/thegr8lewis/health-backend/internal/store"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(st store.Store) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"dashboardOverview": &graphql.Field{
			Type: DashboardOverviewType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveOverview(p.Context, st)
			},
		},
		// Section 2: Charts (Enrollment per Program)
		"dashboardEnrollment": &graphql.Field{
			Type: graphql.NewList(ProgramEnrollmentType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveEnrollment(p.Context, st)
			},
		},
		// Section 3: Tables (Recent Profile Accesses)
		"dashboardRecentAccess": &graphql.Field{
			Type: graphql.NewList(AccessEventType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				return ResolveRecentAccess(p.Context, st, limit)
			},
		},
	}
}
