package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"quizhub/internal/model"
)

// NewMySQL returns a connected GORM DB instance. Driver errors such as
// duplicate keys are translated to gorm's portable errors.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema. When reset is set the tables are dropped first.
func Migrate(db *gorm.DB, reset bool, log logrus.FieldLogger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		// Children first so foreign keys do not block the drop.
		tables := []interface{}{
			&model.Alternative{},
			&model.Question{},
			&model.User{},
		}
		for _, table := range tables {
			if err := db.Migrator().DropTable(table); err != nil {
				log.WithError(err).Warn("failed to drop table (may not exist)")
			}
		}
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Alternative{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
