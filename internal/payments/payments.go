// Package payments manages payment-method records. A placeholder is
// created automatically by the lifecycle listener when a user registers;
// this service covers explicit creation and verification.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	bus *events.Bus
}

func New(db *gorm.DB, bus *events.Bus) *Service {
	return &Service{db: db, bus: bus}
}

func (s *Service) Create(ctx context.Context, userRef, methodType, provider string) (*models.PaymentMethod, error) {
	if methodType == "" || provider == "" {
		return nil, fmt.Errorf("%w: type and provider are required", errs.ErrInvalidArgument)
	}
	var pm models.PaymentMethod
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := resolve.User(tx, userRef)
		if err != nil {
			return err
		}
		pm = models.PaymentMethod{
			UserID:   user.ID,
			Type:     methodType,
			Provider: provider,
			Status:   "pending",
		}
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
		return s.bus.Publish(tx, events.PaymentMethodCreated, events.PaymentMethodEvent{
			UserID:          user.ID,
			UserCode:        user.DisplayCode,
			PaymentMethodID: pm.ID,
			Type:            pm.Type,
			Provider:        pm.Provider,
			Status:          pm.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *Service) Verify(ctx context.Context, userRef string, methodID uint) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := resolve.User(tx, userRef)
		if err != nil {
			return err
		}
		err = tx.Where("id = ? AND user_id = ?", methodID, user.ID).First(&pm).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: payment method %d", errs.ErrNotFound, methodID)
		}
		if err != nil {
			return err
		}
		pm.Status = "verified"
		if err := tx.Save(&pm).Error; err != nil {
			return err
		}
		return s.bus.Publish(tx, events.PaymentMethodVerified, events.PaymentMethodEvent{
			UserID:          user.ID,
			UserCode:        user.DisplayCode,
			PaymentMethodID: pm.ID,
			Type:            pm.Type,
			Provider:        pm.Provider,
			Status:          pm.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *Service) ByUser(ctx context.Context, userRef string) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := resolve.User(tx, userRef)
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Order("id").Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
