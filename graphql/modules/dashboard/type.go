package dashboard

import (
	"github.com/graphql-go/graphql"
)

// DashboardOverviewType holds the top-card counters.
var DashboardOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardOverview",
	Fields: graphql.Fields{
		"total_clients":       &graphql.Field{Type: graphql.Int},
		"total_admins":        &graphql.Field{Type: graphql.Int},
		"total_programs":      &graphql.Field{Type: graphql.Int},
		"active_programs":     &graphql.Field{Type: graphql.Int},
		"total_access_events": &graphql.Field{Type: graphql.Int},
	},
})

// ProgramEnrollmentType is one row of the enrollment-per-program chart.
var ProgramEnrollmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProgramEnrollment",
	Fields: graphql.Fields{
		"program_key":  &graphql.Field{Type: graphql.String},
		"program_name": &graphql.Field{Type: graphql.String},
		"clients":      &graphql.Field{Type: graphql.Int},
	},
})

// AccessEventType is one row of the recent-access table.
var AccessEventType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AccessEvent",
	Fields: graphql.Fields{
		"client_key":     &graphql.Field{Type: graphql.String},
		"accessor_email": &graphql.Field{Type: graphql.String},
		"accessed_at":    &graphql.Field{Type: graphql.String},
		"remote_addr":    &graphql.Field{Type: graphql.String},
		"location":       &graphql.Field{Type: graphql.String},
	},
})
