package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/shared/logger"
)

const (
	StrategyAuto          = "auto"
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy by name. An empty name selects goose, except
// for sqlite which defaults to gorm AutoMigrate.
func NewManager(driver, name string) (*Manager, error) {
	if name == "" {
		name = StrategyGoose
		if driver == "sqlite" {
			name = StrategyAuto
		}
	}

	var (
		strategy Strategy
		err      error
	)
	switch name {
	case StrategyAuto:
		strategy = NewAutoMigrateStrategy()
	case StrategyGoose:
		strategy, err = NewGooseStrategy(driver)
	case StrategyGolangMigrate:
		strategy, err = NewGolangMigrateStrategy(driver)
	default:
		err = fmt.Errorf("unknown migration strategy %q", name)
	}
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// Versioned returns the strategy when it supports down/status/create.
func (m *Manager) Versioned() (Versioned, error) {
	v, ok := m.strategy.(Versioned)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not support versioned operations", m.strategy.GetName())
	}
	return v, nil
}
