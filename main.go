// package main provides the entry point for the health-backend microservice,
// serving the REST API and the GraphQL dashboard.
package main

import (
	"log"
	"os"

	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/api"
	"github.com/thegr8lewis/health-backend/internal/store/arango"
	"github.com/thegr8lewis/health-backend/restapi/modules/auth"
)

func main() {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		auth.SetJWTSecret(secret)
	} else {
		log.Println("WARNING: JWT_SECRET not set, using insecure default")
	}

	// Initialize database connection
	db := database.InitializeDatabase()
	st := arango.New(db)

	app := api.NewFiberApp(st)

	// Get port from environment or default to 3000
	port := os.Getenv("MS_PORT")
	if port == "" {
		port = "3000"
	}

	// Start server
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
