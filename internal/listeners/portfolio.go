package listeners

import (
	"context"
	"errors"
	"time"

	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// portfolioListener keeps the per-investor aggregate in step with
// settled investments and distributed rewards. Portfolios are written
// here and nowhere else.
type portfolioListener struct {
	db *gorm.DB
}

func (l *portfolioListener) onInvestmentCompleted(ctx context.Context, e events.Envelope) error {
	var evt events.InvestmentCompletedEvent
	if err := e.Decode(&evt); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return l.apply(tx, evt.UserID, func(p *models.Portfolio) {
			p.TotalInvested = p.TotalInvested.Add(evt.Amount)
			p.ActiveInvestments++
		})
	})
}

func (l *portfolioListener) onRewardDistributed(ctx context.Context, e events.Envelope) error {
	var evt events.RewardDistributedEvent
	if err := e.Decode(&evt); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return l.apply(tx, evt.UserID, func(p *models.Portfolio) {
			p.TotalRewards = p.TotalRewards.Add(evt.Amount)
			p.TotalROI = p.TotalROI.Add(evt.Amount)
		})
	})
}

func (l *portfolioListener) apply(tx *gorm.DB, userID uint, mutate func(*models.Portfolio)) error {
	var portfolio models.Portfolio
	err := tx.Where("user_id = ?", userID).First(&portfolio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Warn("portfolio not found", zap.Uint("user_id", userID))
		return nil
	}
	if err != nil {
		return err
	}
	mutate(&portfolio)
	now := time.Now()
	portfolio.LastUpdated = &now
	return tx.Save(&portfolio).Error
}
