// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/events/modules/audit"
	"github.com/thegr8lewis/health-backend/internal/geo"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/restapi/modules/auth"
	"github.com/thegr8lewis/health-backend/restapi/modules/clients"
	"github.com/thegr8lewis/health-backend/restapi/modules/programs"
)

var logger = database.Logger()

// SetupRoutes configures all REST API routes and the GraphQL endpoint. Every
// group declares its access policy once; handlers never re-check roles.
func SetupRoutes(app *fiber.App, st store.Store, schema graphql.Schema) {

	// Background initialization tasks
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := auth.Bootstrap(ctx, st); err != nil {
			logger.Warn("Failed to bootstrap admin accounts", zap.Error(err))
		}
	}()

	resetFlow := &auth.ResetFlow{
		Users:  st.Users,
		Tokens: st.ResetTokens,
		Sender: &auth.SMTPSender{Config: auth.LoadEmailConfig()},
	}
	resolver := geo.NewHTTPResolver(database.GetEnvDefault("GEOIP_URL", "http://ip-api.com/json"))
	producer := audit.NewProducerFromEnv()

	staffOnly := auth.Require(st.Users, auth.PolicyStaff)
	adminOnly := auth.Require(st.Users, auth.PolicyAdmin)

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", staffOnly, GraphQLHandler(schema))

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", auth.Login(st.Users))
	authGroup.Post("/refresh", auth.RefreshToken(st.Users))

	authGroup.Get("/superuser/update", adminOnly, auth.GetProfile(st.Users))
	authGroup.Put("/superuser/update", adminOnly, auth.UpdateProfile(st.Users))
	authGroup.Patch("/superuser/update", adminOnly, auth.UpdateProfile(st.Users))

	// Admin Provisioning (Admin)
	authGroup.Post("/admin/create", adminOnly, auth.CreateAdmin(st.Users, st.Audit))
	authGroup.Get("/admin/creation-logs", adminOnly, auth.ListAdminCreationLogs(st.Audit))

	// Password Reset Flow (public, 3 steps)
	resetGroup := authGroup.Group("/password-reset")
	resetGroup.Post("/request", auth.RequestReset(resetFlow))
	resetGroup.Post("/verify", auth.VerifyResetCode(resetFlow))
	resetGroup.Post("/confirm", auth.ResetPassword(resetFlow))

	// Audited Client Profile Read
	api.Get("/external/clients/:id", staffOnly, clients.GetClientProfile(st.Clients, st.Programs, st.Audit, resolver, producer))

	// Client Access Audit Trail
	api.Get("/client-access-logs", staffOnly, clients.ListAccessLogs(st.Audit))

	// Client Management
	clientGroup := api.Group("/clients", staffOnly)
	clientGroup.Post("/", clients.CreateClient(st.Clients, st.Programs))
	clientGroup.Get("/", clients.ListClients(st.Clients))
	clientGroup.Get("/:id", clients.GetClient(st.Clients))
	clientGroup.Put("/:id", clients.UpdateClient(st.Clients, st.Programs))
	clientGroup.Delete("/:id", clients.DeleteClient(st.Clients))

	// Program Catalog
	programGroup := api.Group("/programs", staffOnly)
	programGroup.Post("/", programs.CreateProgram(st.Programs))
	programGroup.Get("/", programs.ListPrograms(st.Programs))
	programGroup.Get("/:id", programs.GetProgram(st.Programs))
	programGroup.Put("/:id", programs.UpdateProgram(st.Programs))
	programGroup.Delete("/:id", programs.DeleteProgram(st.Programs))

	logger.Info("API routes initialized")
}
