// Package programs provides health program catalog handlers.
package programs

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

var logger = database.Logger()

// ProgramRequest is the create/update payload.
type ProgramRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

// CreateProgram adds a program to the catalog.
func CreateProgram(programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProgramRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Program name is required"})
		}
		if req.Duration < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Duration cannot be negative"})
		}

		status := req.Status
		if status == "" {
			status = model.ProgramActive
		}
		if status != model.ProgramActive && status != model.ProgramInactive {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		}

		program := &model.Program{
			Name:        req.Name,
			Description: req.Description,
			Duration:    req.Duration,
			Category:    req.Category,
			Status:      status,
		}

		program, err := programs.Create(c.Context(), program)
		if err != nil {
			logger.Error("Failed to create program", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create program"})
		}

		return c.Status(fiber.StatusCreated).JSON(program)
	}
}

// ListPrograms returns the full catalog sorted by name.
func ListPrograms(programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := programs.List(c.Context())
		if err != nil {
			logger.Error("Failed to list programs", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch programs"})
		}
		return c.JSON(fiber.Map{"programs": list, "count": len(list)})
	}
}

// GetProgram returns a single program.
func GetProgram(programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		program, err := programs.GetByKey(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
			}
			logger.Error("Failed to fetch program", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch program"})
		}
		return c.JSON(program)
	}
}

// UpdateProgram updates an existing program.
func UpdateProgram(programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProgramRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		program, err := programs.GetByKey(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
			}
			logger.Error("Failed to fetch program", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch program"})
		}

		if req.Name != "" {
			program.Name = strings.TrimSpace(req.Name)
		}
		if req.Description != "" {
			program.Description = req.Description
		}
		if req.Duration > 0 {
			program.Duration = req.Duration
		}
		if req.Category != "" {
			program.Category = req.Category
		}
		if req.Status != "" {
			if req.Status != model.ProgramActive && req.Status != model.ProgramInactive {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
			}
			program.Status = req.Status
		}

		if err := programs.Update(c.Context(), program); err != nil {
			logger.Error("Failed to update program", zap.String("program", program.Key), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update program"})
		}

		return c.JSON(program)
	}
}

// DeleteProgram removes a program. Clients referencing it keep their
// program_key; the profile read simply omits program details afterwards.
func DeleteProgram(programs store.Programs) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := programs.Delete(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
			}
			logger.Error("Failed to delete program", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete program"})
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
