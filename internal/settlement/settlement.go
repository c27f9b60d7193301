// Package settlement implements the atomic exchange of wallet balance
// for property tokens: one transaction covering inventory, balance,
// treasury and ledger, with an outbox event published on commit.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobasAhmedShah/hmr-backend/configs"
	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/money"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"github.com/jackc/pgx/v5/pgconn"
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

// Settle performs one investment: reserve tokens, debit the buyer,
// credit the issuer treasury, write both ledger sides. Lock order is
// property, then wallet, then organization, on every path.
func (s *Service) Settle(ctx context.Context, investorRef, propertyRef string, tokens decimal.Decimal) (*models.Investment, error) {
	if !tokens.IsPositive() {
		return nil, fmt.Errorf("%w: tokens must be positive", errs.ErrInvalidArgument)
	}
	if !tokens.Equal(money.Quantize(tokens)) {
		return nil, fmt.Errorf("%w: tokens finer than %d decimal places", errs.ErrInvalidArgument, money.Scale)
	}

	var inv models.Investment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applyLockTimeout(tx)

		property, err := resolve.PropertyForUpdate(tx, propertyRef)
		if err != nil {
			return err
		}
		if property.AvailableTokens.LessThan(tokens) {
			return fmt.Errorf("%w: requested %s, available %s",
				errs.ErrInsufficientInventory, tokens, property.AvailableTokens)
		}

		// tokens and price both carry at most Scale places, so the raw
		// product can carry up to twice that; truncate before the
		// balance check so the compared value is the stored value.
		amount := money.Quantize(tokens.Mul(property.PricePerToken))

		investor, err := resolve.User(tx, investorRef)
		if err != nil {
			return err
		}
		wallet, err := resolve.WalletForUpdate(tx, investor.ID)
		if err != nil {
			return err
		}
		if wallet.Balance.LessThan(amount) {
			return fmt.Errorf("%w: need %s, have %s",
				errs.ErrInsufficientFunds, amount, wallet.Balance)
		}

		wallet.Balance = wallet.Balance.Sub(amount)
		if err := tx.Model(wallet).Update("balance", wallet.Balance).Error; err != nil {
			return err
		}
		property.AvailableTokens = property.AvailableTokens.Sub(tokens)
		if err := tx.Model(property).Update("available_tokens", property.AvailableTokens).Error; err != nil {
			return err
		}

		invCode, err := s.codes.Next(tx, codes.Investment)
		if err != nil {
			return err
		}
		inv = models.Investment{
			DisplayCode:     invCode,
			UserID:          investor.ID,
			PropertyID:      property.ID,
			TokensPurchased: tokens,
			AmountPaid:      amount,
			Status:          "confirmed",
			PaymentStatus:   "completed",
			ExpectedROI:     property.ExpectedROI,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		txnCode, err := s.codes.Next(tx, codes.Transaction)
		if err != nil {
			return err
		}
		txn := models.Transaction{
			DisplayCode: txnCode,
			UserID:      investor.ID,
			WalletID:    wallet.ID,
			PropertyID:  property.ID,
			Type:        "investment",
			Amount:      amount,
			Status:      "completed",
			ReferenceID: inv.ID,
			Description: fmt.Sprintf("Investment in %s", property.Title),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		org, err := resolve.OrganizationForUpdate(tx, property.OrganizationID)
		if err != nil {
			return err
		}
		org.Liquidity = org.Liquidity.Add(amount)
		if err := tx.Model(org).Update("liquidity", org.Liquidity).Error; err != nil {
			return err
		}

		inflowCode, err := s.codes.Next(tx, codes.Transaction)
		if err != nil {
			return err
		}
		inflow := models.Transaction{
			DisplayCode:    inflowCode,
			UserID:         investor.ID,
			WalletID:       wallet.ID,
			OrganizationID: org.ID,
			PropertyID:     property.ID,
			Type:           "inflow",
			Amount:         amount,
			Status:         "completed",
			ReferenceID:    inv.ID,
			Description:    fmt.Sprintf("Liquidity inflow from investment %s", invCode),
		}
		if err := tx.Create(&inflow).Error; err != nil {
			return err
		}

		return s.bus.Publish(tx, events.InvestmentCompleted, events.InvestmentCompletedEvent{
			UserID:           investor.ID,
			UserCode:         investor.DisplayCode,
			PropertyID:       property.ID,
			PropertyCode:     property.DisplayCode,
			OrganizationID:   org.ID,
			OrganizationCode: org.DisplayCode,
			InvestmentID:     inv.ID,
			InvestmentCode:   invCode,
			TransactionID:    txn.ID,
			TransactionCode:  txnCode,
			TokensPurchased:  tokens,
			Amount:           amount,
		})
	})
	if err != nil {
		return nil, mapLockError(err)
	}

	logger.Log.Info("investment settled",
		zap.String("investment", inv.DisplayCode),
		zap.String("tokens", inv.TokensPurchased.String()),
		zap.String("amount", inv.AmountPaid.String()))
	return &inv, nil
}

// applyLockTimeout bounds lock waits for this transaction. SET LOCAL is
// Postgres-only; other dialects have no equivalent.
func applyLockTimeout(tx *gorm.DB) {
	if tx.Dialector.Name() != "postgres" {
		return
	}
	ms := configs.AppConfig.DB.LockTimeout.Milliseconds()
	if ms <= 0 {
		return
	}
	if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)).Error; err != nil {
		logger.Log.Warn("failed to set lock timeout", zap.Error(err))
	}
}

// mapLockError translates the Postgres lock_not_available failure into
// the retryable sentinel.
func mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
		return fmt.Errorf("%w: %s", errs.ErrLockTimeout, pgErr.Message)
	}
	return err
}
