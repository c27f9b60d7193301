package listeners

import (
	"context"
	"errors"

	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const placeholderProvider = "Pending Verification"

// paymentMethodListener drives the payment-method lifecycle: a pending
// placeholder at registration, promoted once KYC clears.
type paymentMethodListener struct {
	db *gorm.DB
}

func (l *paymentMethodListener) onUserCreated(ctx context.Context, e events.Envelope) error {
	var evt events.UserCreatedEvent
	if err := e.Decode(&evt); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.PaymentMethod
		err := tx.Where("user_id = ?", evt.UserID).First(&existing).Error
		if err == nil {
			// replayed event, placeholder already there
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		pm := models.PaymentMethod{
			UserID:   evt.UserID,
			Type:     "card",
			Provider: placeholderProvider,
			Status:   "pending",
		}
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
		logger.Log.Info("placeholder payment method created",
			zap.String("user", evt.UserCode))
		return nil
	})
}

func (l *paymentMethodListener) onKycVerified(ctx context.Context, e events.Envelope) error {
	var evt events.KycVerifiedEvent
	if err := e.Decode(&evt); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.PaymentMethod{}).
			Where("user_id = ? AND status = ? AND provider = ?",
				evt.UserID, "pending", placeholderProvider).
			Update("provider", "Ready for Card Details").Error
	})
}
