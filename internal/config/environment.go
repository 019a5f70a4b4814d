package config

import (
	"fmt"
	"os"
	"strings"

	"project-tracker/internal/logging"
	"project-tracker/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// developmentDBPath is relative to the working directory.
const developmentDBPath = "pt-dev.db"

// GetEnvironment determines the current environment from PT_ENV.
// Anything unrecognised selects production.
func GetEnvironment() Environment {
	switch Environment(strings.ToLower(os.Getenv("PT_ENV"))) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env    Environment
	config *Config
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment, config *Config) *RepositoryFactory {
	return &RepositoryFactory{env: env, config: config}
}

// CreateRepository creates a repository instance based on the current environment
func (rf *RepositoryFactory) CreateRepository() (sqlite.Repository, error) {
	logging.Debugf("creating %s repository\n", rf.env)

	switch rf.env {
	case Development:
		repo, err := sqlite.NewWithConfig(developmentDBPath, rf.config.GetQueryTimeout())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize development database: %w", err)
		}
		return repo, nil
	case Testing:
		return CreateTestRepository()
	default:
		return CreateRepository(rf.config)
	}
}
