package listeners

import (
	"context"
	"errors"

	"github.com/RobasAhmedShah/hmr-backend/internal/certificates"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// documentListener triggers certificate generation once an investment
// settles. It locates the ledger row by id first and falls back to a
// search by investor, property, type and status.
type documentListener struct {
	db    *gorm.DB
	certs *certificates.Service
}

func (l *documentListener) onInvestmentCompleted(ctx context.Context, e events.Envelope) error {
	var evt events.InvestmentCompletedEvent
	if err := e.Decode(&evt); err != nil {
		return err
	}

	var txn models.Transaction
	err := l.db.WithContext(ctx).First(&txn, evt.TransactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = l.db.WithContext(ctx).
			Where("user_id = ? AND property_id = ? AND type = ? AND status = ?",
				evt.UserID, evt.PropertyID, "investment", "completed").
			Order("id DESC").
			First(&txn).Error
	}
	if err != nil {
		logger.Log.Warn("no ledger entry for settled investment",
			zap.String("investment", evt.InvestmentCode),
			zap.Error(err))
		return nil
	}

	cert, err := l.certs.Generate(ctx, txn.ID, evt.InvestmentID)
	if err != nil {
		return err
	}
	logger.Log.Info("certificate generated",
		zap.String("investment", evt.InvestmentCode),
		zap.String("path", cert.Path))
	return nil
}
