package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/model"
)

// SeedConfig is the YAML structure for first-run seeding. It lets a fresh
// deployment come up with a working superuser and an initial program catalog.
type SeedConfig struct {
	Admins []SeedAdmin `yaml:"admins"`

	Programs []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Duration    int    `yaml:"duration"`
		Category    string `yaml:"category"`
	} `yaml:"programs,omitempty"`
}

// SeedAdmin is an admin account in the seed file.
type SeedAdmin struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// LoadSeedConfig reads and parses the seed YAML file.
func LoadSeedConfig(filepath string) (*SeedConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSeedConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid seed config: %w", err)
	}

	return &config, nil
}

func validateSeedConfig(config *SeedConfig) error {
	seenEmails := make(map[string]bool)
	for _, admin := range config.Admins {
		if admin.Username == "" {
			return fmt.Errorf("username is required")
		}
		if admin.Email == "" {
			return fmt.Errorf("email is required for admin %s", admin.Username)
		}
		if err := ValidatePasswordStrength(admin.Password); err != nil {
			return fmt.Errorf("admin %s: %w", admin.Username, err)
		}
		if seenEmails[admin.Email] {
			return fmt.Errorf("duplicate email: %s", admin.Email)
		}
		seenEmails[admin.Email] = true
	}
	for _, p := range config.Programs {
		if p.Name == "" {
			return fmt.Errorf("program name is required")
		}
	}
	return nil
}

// Bootstrap ensures at least one admin account exists. It is idempotent: the
// seed file (SEED_FILE) or the BOOTSTRAP_ADMIN_* variables are only applied
// when the users collection holds no admin yet. Bootstrap accounts are created
// directly and never appear in the admin creation audit trail, which records
// only provisioning performed by a signed-in admin.
func Bootstrap(ctx context.Context, st store.Store) error {
	count, err := st.Users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if path := os.Getenv("SEED_FILE"); path != "" {
		config, err := LoadSeedConfig(path)
		if err != nil {
			return err
		}
		return applySeed(ctx, st, config)
	}

	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("No admin accounts exist and no bootstrap configuration is set")
		return nil
	}

	return applySeed(ctx, st, &SeedConfig{
		Admins: []SeedAdmin{{Username: "admin", Email: email, Password: password}},
	})
}

func applySeed(ctx context.Context, st store.Store, config *SeedConfig) error {
	for _, seed := range config.Admins {
		hash, err := HashPassword(seed.Password)
		if err != nil {
			return err
		}
		admin := model.NewUser(seed.Username, seed.Email, model.RoleAdmin)
		admin.PasswordHash = hash

		if _, err := st.Users.Create(ctx, admin); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				continue
			}
			return fmt.Errorf("failed to seed admin %s: %w", seed.Email, err)
		}
		logger.Info("Bootstrap admin created", zap.String("email", seed.Email))
	}

	for _, seed := range config.Programs {
		program := &model.Program{
			Name:        seed.Name,
			Description: seed.Description,
			Duration:    seed.Duration,
			Category:    seed.Category,
			Status:      model.ProgramActive,
		}
		if _, err := st.Programs.Create(ctx, program); err != nil {
			return fmt.Errorf("failed to seed program %s: %w", seed.Name, err)
		}
		logger.Info("Bootstrap program created", zap.String("name", seed.Name))
	}

	return nil
}
