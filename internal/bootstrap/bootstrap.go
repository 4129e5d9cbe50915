// Package bootstrap runs the env-gated first-install setup and the schema
// gate that keeps a binary from serving against an unmigrated database.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/adlenslabs/adlens/internal/config"
	"github.com/adlenslabs/adlens/internal/seed"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureDefaultOwner creates the default team, manager and API key when
// explicitly enabled. Intended for dev and single-tenant installs; the raw
// API key is logged exactly once, on creation.
func EnsureDefaultOwner(cfg config.Config, db *gorm.DB, log *zap.Logger) error {
	if !cfg.Bootstrap.EnsureDefaultOwner {
		return nil
	}
	if db == nil {
		return errors.New("bootstrap requires database handle")
	}

	result, err := seed.EnsureOwner(db, seed.OwnerSeedOptions{
		TeamName:   cfg.Bootstrap.TeamName,
		OwnerEmail: cfg.Bootstrap.OwnerEmail,
		OwnerName:  cfg.Bootstrap.OwnerName,
	})
	if err != nil {
		return err
	}

	if result.RawAPIKey != "" {
		log.Info("default owner bootstrapped; store this API key now, it is not shown again",
			zap.String("owner_id", result.OwnerID.String()),
			zap.String("api_key", result.RawAPIKey))
	} else {
		log.Info("default owner already present",
			zap.String("owner_id", result.OwnerID.String()))
	}
	return nil
}

// SchemaGate fails fast when the database schema is behind the binary.
type SchemaGate interface {
	MustBeActive(ctx context.Context) error
}

type schemaGate struct {
	db *gorm.DB
}

func NewSchemaGate(db *gorm.DB) (SchemaGate, error) {
	if db == nil {
		return nil, errors.New("schema gate requires database handle")
	}
	return &schemaGate{db: db}, nil
}

func (g *schemaGate) MustBeActive(ctx context.Context) error {
	var state struct {
		Version int64
		Dirty   bool
	}
	err := g.db.WithContext(ctx).
		Raw("SELECT version, dirty FROM schema_migrations LIMIT 1").
		Scan(&state).Error
	if err != nil {
		return fmt.Errorf("schema not migrated: %w", err)
	}
	if state.Dirty {
		return fmt.Errorf("schema migrations are dirty at version %d", state.Version)
	}
	if state.Version == 0 {
		return errors.New("schema not migrated: no applied version")
	}
	return nil
}
