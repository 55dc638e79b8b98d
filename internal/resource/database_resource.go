package resource

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"snipx-service/ddd/infrastructure/database/po"
	"snipx-service/pkg/assert"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/manager"
	"snipx-service/pkg/repository"
)

var (
	databaseResourceOnce      sync.Once
	singletonDatabaseResource *DatabaseResource
)

// DatabaseResource 主库连接
type DatabaseResource struct {
	db *repository.Database
}

func DefaultDatabaseResource() *DatabaseResource {
	assert.NotCircular()
	databaseResourceOnce.Do(func() {
		singletonDatabaseResource = &DatabaseResource{}
	})
	assert.NotNil(singletonDatabaseResource)
	return singletonDatabaseResource
}

func (r *DatabaseResource) MustOpen() {
	if r.db != nil {
		return
	}
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before DatabaseResource")
	}
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
	r.db = db
	if cfg.Database.AutoMigrate {
		if err := r.Migrate(); err != nil {
			panic(fmt.Sprintf("failed to migrate database: %v", err))
		}
	}
	logger.Info("Database resource initialized", map[string]interface{}{
		"driver":   cfg.Database.Driver,
		"host":     cfg.Database.Host,
		"database": cfg.Database.Database,
	})
}

// Migrate creates or alters the videos, users and support_tickets tables.
func (r *DatabaseResource) Migrate() error {
	return r.MainDB().AutoMigrate(po.AllModels()...)
}

// MainDB 获取主库句柄
func (r *DatabaseResource) MainDB() *gorm.DB {
	if r.db == nil {
		panic("database resource used before MustOpen")
	}
	return r.db.Self
}

func (r *DatabaseResource) Close() {
	r.db.Close()
	r.db = nil
}

type DatabaseResourcePlugin struct{}

func (p *DatabaseResourcePlugin) Name() string { return "databaseResource" }

func (p *DatabaseResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultDatabaseResource()
}
