package db

import (
	"github.com/workbin-dev/workbin/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the relational store: Postgres when a DSN is
// provided, otherwise a single sqlite database file.
func ConnectDatabase(postgresDSN, sqliteFile string) error {
	var err error

	if postgresDSN != "" {
		DB, err = gorm.Open(postgres.Open(postgresDSN), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(sqliteFile), &gorm.Config{})
	}

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
