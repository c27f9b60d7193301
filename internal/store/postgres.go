package store

import (
	"github.com/RobasAhmedShah/hmr-backend/configs"
	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func NewDB() {
	dsn := configs.AppConfig.DB.DSN
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: false,
	}), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	DB = db
	logger.Log.Info("connected to the database")
}

func DBMigrate() {
	if err := Migrate(DB); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Log.Info("migrations loaded")
}

// Migrate creates the schema plus the display-code sequences. Sequences
// exist only on Postgres; other dialects (sqlite in tests) use the
// in-memory code generator instead.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Organization{},
		&models.Property{},
		&models.Investment{},
		&models.Transaction{},
		&models.Reward{},
		&models.Portfolio{},
		&models.KycVerification{},
		&models.PaymentMethod{},
		&models.Certificate{},
		&models.OutboxEvent{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		for _, seq := range codes.Sequences() {
			if err := db.Exec("CREATE SEQUENCE IF NOT EXISTS " + seq).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
