package seed

import (
	"context"

	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/organizations"
	"github.com/RobasAhmedShah/hmr-backend/internal/properties"
	"github.com/RobasAhmedShah/hmr-backend/internal/users"
	"github.com/RobasAhmedShah/hmr-backend/internal/wallets"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedPassword = "password123"
	seedDeposit  = "1000.00"
)

var testInvestors = []struct {
	Name  string
	Email string
}{
	{"Test Investor 1", "investor1@test.com"},
	{"Test Investor 2", "investor2@test.com"},
	{"Test Investor 3", "investor3@test.com"},
}

type Services struct {
	Users         *users.Service
	Wallets       *wallets.Service
	Organizations *organizations.Service
	Properties    *properties.Service
}

func Run(db *gorm.DB, s Services) {
	ctx := context.Background()

	var count int64
	emails := make([]string, len(testInvestors))
	for i, inv := range testInvestors {
		emails[i] = inv.Email
	}
	if err := db.Model(&models.User{}).Where("email IN ?", emails).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= int64(len(testInvestors)) {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	org, err := s.Organizations.Create(ctx, "HMR Builders", "Demo asset issuer", "https://hmr.example")
	if err != nil {
		logger.Log.Fatal("seed organization failed", zap.Error(err))
	}

	_, err = s.Properties.Create(ctx, properties.CreateInput{
		OrganizationRef: org.DisplayCode,
		Title:           "Marina Heights Tower",
		Type:            "residential",
		City:            "Karachi",
		Country:         "PK",
		TotalValue:      decimal.RequireFromString("10000.00"),
		TotalTokens:     decimal.RequireFromString("1000"),
		ExpectedROI:     decimal.RequireFromString("12.50"),
	})
	if err != nil {
		logger.Log.Fatal("seed property failed", zap.Error(err))
	}

	deposit := decimal.RequireFromString(seedDeposit)
	for _, inv := range testInvestors {
		user, err := s.Users.Register(ctx, users.RegisterInput{
			FullName: inv.Name,
			Email:    inv.Email,
			Password: seedPassword,
		})
		if err != nil {
			logger.Log.Fatal("seed user failed", zap.Error(err))
		}
		if _, err := s.Wallets.Deposit(ctx, user.DisplayCode, deposit); err != nil {
			logger.Log.Fatal("seed deposit failed", zap.Error(err))
		}
	}

	logger.Log.Info("seeded demo issuer, property and investors",
		zap.String("password", seedPassword))
}
