// Package clients provides client management handlers and the audited
// client profile read.
package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/events/modules/audit"
	"github.com/thegr8lewis/health-backend/internal/geo"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
	"github.com/thegr8lewis/health-backend/restapi/modules/auth"
)

var logger = database.Logger()

// ClientRequest is the create/update payload.
type ClientRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	ProgramKey  string `json:"program_key"`
}

// CreateClient registers a new client.
func CreateClient(clients store.Clients, programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ClientRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		req.Email = strings.TrimSpace(req.Email)
		if req.FirstName == "" || req.LastName == "" || req.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "First name, last name and email are required"})
		}

		if req.ProgramKey != "" {
			if _, err := programs.GetByKey(c.Context(), req.ProgramKey); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown program"})
			}
		}

		now := time.Now()
		client := &model.Client{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			DateOfBirth: req.DateOfBirth,
			Address:     req.Address,
			ProgramKey:  req.ProgramKey,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		client, err := clients.Create(c.Context(), client)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already in use"})
			}
			logger.Error("Failed to create client", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create client"})
		}

		return c.Status(fiber.StatusCreated).JSON(client)
	}
}

// ListClients returns all clients, newest first.
func ListClients(clients store.Clients) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := clients.List(c.Context())
		if err != nil {
			logger.Error("Failed to list clients", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch clients"})
		}
		return c.JSON(fiber.Map{"clients": list, "count": len(list)})
	}
}

// GetClient returns a single client record. Unlike the profile read this
// endpoint is not audited; it carries no program details.
func GetClient(clients store.Clients) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, err := clients.GetByKey(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
			}
			logger.Error("Failed to fetch client", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch client"})
		}
		return c.JSON(client)
	}
}

// UpdateClient updates an existing client.
func UpdateClient(clients store.Clients, programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ClientRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		client, err := clients.GetByKey(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
			}
			logger.Error("Failed to fetch client", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch client"})
		}

		if req.ProgramKey != "" && req.ProgramKey != client.ProgramKey {
			if _, err := programs.GetByKey(c.Context(), req.ProgramKey); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown program"})
			}
		}

		if req.FirstName != "" {
			client.FirstName = strings.TrimSpace(req.FirstName)
		}
		if req.LastName != "" {
			client.LastName = strings.TrimSpace(req.LastName)
		}
		if req.Email != "" {
			client.Email = strings.TrimSpace(req.Email)
		}
		if req.Phone != "" {
			client.Phone = req.Phone
		}
		if req.DateOfBirth != "" {
			client.DateOfBirth = req.DateOfBirth
		}
		if req.Address != "" {
			client.Address = req.Address
		}
		if req.ProgramKey != "" {
			client.ProgramKey = req.ProgramKey
		}
		client.UpdatedAt = time.Now()

		if err := clients.Update(c.Context(), client); err != nil {
			logger.Error("Failed to update client", zap.String("client", client.Key), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update client"})
		}

		return c.JSON(client)
	}
}

// DeleteClient removes a client record. Access log rows referencing the
// client are retained; the audit trail outlives the record it points at.
func DeleteClient(clients store.Clients) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := clients.Delete(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
			}
			logger.Error("Failed to delete client", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete client"})
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// GetClientProfile serves the sensitive client profile with program details.
// Every successful read appends an access log row naming the caller, the time
// and the resolved location of the requesting address. A read that cannot be
// logged is refused; a missing client writes nothing.
func GetClientProfile(clients store.Clients, programs store.Programs, auditStore store.Audit, resolver geo.Resolver, producer *audit.Producer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := auth.CallerIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}

		client, err := clients.GetByKey(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
			}
			logger.Error("Failed to fetch client", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch client"})
		}

		profile := model.ClientProfile{Client: *client}
		if client.ProgramKey != "" {
			if program, err := programs.GetByKey(c.Context(), client.ProgramKey); err == nil {
				profile.Program = program
			}
		}

		remoteAddr := c.IP()
		entry := &model.ClientAccessLog{
			ClientKey:     client.Key,
			AccessorKey:   id.UserKey,
			AccessorEmail: id.Email,
			AccessedAt:    time.Now(),
			RemoteAddr:    remoteAddr,
			Location:      resolver.Lookup(c.Context(), remoteAddr),
		}

		if err := auditStore.AppendClientAccess(c.Context(), entry); err != nil {
			logger.Error("Failed to append client access log",
				zap.String("client", client.Key),
				zap.String("accessor", id.Email),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record access"})
		}

		if producer != nil {
			event := *entry
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := producer.PublishClientAccessed(ctx, event); err != nil {
					logger.Warn("Failed to publish client access event", zap.Error(err))
				}
			}()
		}

		return c.JSON(profile)
	}
}

// ListAccessLogs returns the most recent client access log rows.
func ListAccessLogs(auditStore store.Audit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 500 {
			limit = 50
		}

		logs, err := auditStore.ListClientAccess(c.Context(), limit)
		if err != nil {
			logger.Error("Failed to list client access logs", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch logs"})
		}

		return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
	}
}
