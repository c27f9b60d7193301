// Package rewards is the pro-rata distribution engine: it splits a
// return pool across the current holders of a property's tokens and
// credits their wallets in one transaction.
package rewards

import (
	"context"
	"fmt"
	"sort"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/money"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
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

// holding is one investor's aggregated position in the property.
type holding struct {
	userID          uint
	tokens          decimal.Decimal
	firstInvestment uint
	share           decimal.Decimal
}

// Distribute splits totalReturn across all confirmed investors of the
// property, pro rata by tokens held. Exactly one Reward row and one
// reward Transaction per investor, regardless of how many investments
// they hold. Shares are truncated at the ledger scale; the truncation
// residual goes to the largest holder so the pool pays out exactly.
func (s *Service) Distribute(ctx context.Context, propertyRef string, totalReturn decimal.Decimal) ([]models.Reward, error) {
	if !totalReturn.IsPositive() {
		return nil, fmt.Errorf("%w: total return must be positive", errs.ErrInvalidArgument)
	}

	var out []models.Reward
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := resolve.Property(tx, propertyRef)
		if err != nil {
			return err
		}
		org, err := resolve.Organization(tx, fmt.Sprint(property.OrganizationID))
		if err != nil {
			return err
		}

		var investments []models.Investment
		err = tx.Where("property_id = ? AND status = ?", property.ID, "confirmed").
			Order("id").Find(&investments).Error
		if err != nil {
			return err
		}
		if len(investments) == 0 {
			return fmt.Errorf("%w: property %s", errs.ErrNoActiveInvestments, property.DisplayCode)
		}

		holdings := aggregate(investments)
		held := decimal.Zero
		shares := make([]decimal.Decimal, len(holdings))
		for i := range holdings {
			held = held.Add(holdings[i].tokens)
			holdings[i].share = money.Share(holdings[i].tokens, property.TotalTokens, totalReturn)
			shares[i] = holdings[i].share
		}
		// Only the held fraction of the pool is allocatable; the
		// residual reconciled here is truncation loss, not the part
		// attributable to unsold tokens.
		allocatable := money.Share(held, property.TotalTokens, totalReturn)
		if residual := money.Residual(allocatable, shares); residual.IsPositive() {
			largest := 0
			for i := range holdings {
				if holdings[i].tokens.GreaterThan(holdings[largest].tokens) {
					largest = i
				}
			}
			holdings[largest].share = holdings[largest].share.Add(residual)
		}

		for _, h := range holdings {
			investor, err := resolve.User(tx, fmt.Sprint(h.userID))
			if err != nil {
				return err
			}
			wallet, err := resolve.WalletForUpdate(tx, h.userID)
			if err != nil {
				return err
			}
			wallet.Balance = wallet.Balance.Add(h.share)
			if err := tx.Model(wallet).Update("balance", wallet.Balance).Error; err != nil {
				return err
			}

			rwdCode, err := s.codes.Next(tx, codes.Reward)
			if err != nil {
				return err
			}
			reward := models.Reward{
				DisplayCode:  rwdCode,
				UserID:       h.userID,
				InvestmentID: h.firstInvestment,
				Amount:       h.share,
				Type:         "roi",
				Status:       "distributed",
				Description:  fmt.Sprintf("ROI distribution for property %s", property.Title),
			}
			if err := tx.Create(&reward).Error; err != nil {
				return err
			}

			txnCode, err := s.codes.Next(tx, codes.Transaction)
			if err != nil {
				return err
			}
			txn := models.Transaction{
				DisplayCode:    txnCode,
				UserID:         h.userID,
				WalletID:       wallet.ID,
				OrganizationID: org.ID,
				PropertyID:     property.ID,
				Type:           "reward",
				Amount:         h.share,
				Status:         "completed",
				ReferenceID:    reward.ID,
				Description:    fmt.Sprintf("ROI reward for %s", property.Title),
				FromEntity:     org.Name,
				ToEntity:       investor.FullName,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}

			err = s.bus.Publish(tx, events.RewardDistributed, events.RewardDistributedEvent{
				UserID:         h.userID,
				UserCode:       investor.DisplayCode,
				PropertyID:     property.ID,
				PropertyCode:   property.DisplayCode,
				OrganizationID: org.ID,
				RewardID:       reward.ID,
				RewardCode:     rwdCode,
				Amount:         h.share,
			})
			if err != nil {
				return err
			}

			out = append(out, reward)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("returns distributed",
		zap.String("property", propertyRef),
		zap.String("total", totalReturn.String()),
		zap.Int("investors", len(out)))
	return out, nil
}

// aggregate groups investments by investor, summing tokens. Order is
// deterministic: by first investment id.
func aggregate(investments []models.Investment) []holding {
	index := make(map[uint]int)
	var holdings []holding
	for _, inv := range investments {
		i, ok := index[inv.UserID]
		if !ok {
			i = len(holdings)
			index[inv.UserID] = i
			holdings = append(holdings, holding{
				userID:          inv.UserID,
				tokens:          decimal.Zero,
				firstInvestment: inv.ID,
			})
		}
		holdings[i].tokens = holdings[i].tokens.Add(inv.TokensPurchased)
	}
	sort.Slice(holdings, func(a, b int) bool {
		return holdings[a].firstInvestment < holdings[b].firstInvestment
	})
	return holdings
}
