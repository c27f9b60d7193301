// Package users handles onboarding and KYC review. Registration
// creates the user with its zero-balance wallet, pending KYC record and
// empty portfolio in one transaction, then announces user.created.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/money"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	codes codes.Generator
	bus   *events.Bus
}

func New(db *gorm.DB, gen codes.Generator, bus *events.Bus) *Service {
	return &Service{db: db, codes: gen, bus: bus}
}

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errs.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.codes.Next(tx, codes.User)
		if err != nil {
			return err
		}
		user = models.User{
			DisplayCode: code,
			FullName:    in.FullName,
			Email:       in.Email,
			Phone:       in.Phone,
			Password:    string(hash),
			Role:        "user",
			IsActive:    true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		wallet := models.Wallet{
			UserID:         user.ID,
			Balance:        money.Zero,
			Locked:         money.Zero,
			TotalDeposited: money.Zero,
			TotalWithdrawn: money.Zero,
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}

		kyc := models.KycVerification{UserID: user.ID, Type: "cnic", Status: "pending"}
		if err := tx.Create(&kyc).Error; err != nil {
			return err
		}

		now := time.Now()
		portfolio := models.Portfolio{
			UserID:        user.ID,
			TotalInvested: money.Zero,
			TotalRewards:  money.Zero,
			TotalROI:      money.Zero,
			LastUpdated:   &now,
		}
		if err := tx.Create(&portfolio).Error; err != nil {
			return err
		}

		return s.bus.Publish(tx, events.UserCreated, events.UserCreatedEvent{
			UserID:      user.ID,
			UserCode:    code,
			FullName:    user.FullName,
			Email:       user.Email,
			WalletID:    wallet.ID,
			PortfolioID: portfolio.ID,
			KycID:       kyc.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.String("user", user.DisplayCode))
	return &user, nil
}

// Authenticate verifies credentials and returns the user row.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", errs.ErrNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: bad credentials", errs.ErrNotFound)
	}
	return &user, nil
}

// VerifyKyc marks the user's pending verification as verified and
// announces kyc.verified so the payment-method lifecycle can advance.
func (s *Service) VerifyKyc(ctx context.Context, userRef, reviewer string) (*models.KycVerification, error) {
	var kyc models.KycVerification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := resolve.User(tx, userRef)
		if err != nil {
			return err
		}
		err = tx.Where("user_id = ? AND status = ?", user.ID, "pending").First(&kyc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: pending kyc for user %s", errs.ErrNotFound, user.DisplayCode)
		}
		if err != nil {
			return err
		}

		now := time.Now()
		kyc.Status = "verified"
		kyc.Reviewer = reviewer
		kyc.ReviewedAt = &now
		if err := tx.Save(&kyc).Error; err != nil {
			return err
		}

		return s.bus.Publish(tx, events.KycVerified, events.KycVerifiedEvent{
			UserID:           user.ID,
			UserCode:         user.DisplayCode,
			KycID:            kyc.ID,
			Status:           "verified",
			VerificationDate: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &kyc, nil
}

// Get resolves a user by id or display code.
func (s *Service) Get(ctx context.Context, ref string) (*models.User, error) {
	return resolve.User(s.db.WithContext(ctx), ref)
}
