// Package wallets covers the plain cash movements: deposits and
// withdrawals. Both write through the same ledger primitives the
// settlement path uses.
package wallets

import (
	"context"
	"fmt"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"github.com/shopspring/decimal"
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

// Deposit credits the investor's wallet and appends a deposit ledger
// row. Returns the transaction.
func (s *Service) Deposit(ctx context.Context, investorRef string, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidArgument)
	}

	var txn models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		investor, err := resolve.User(tx, investorRef)
		if err != nil {
			return err
		}
		wallet, err := resolve.WalletForUpdate(tx, investor.ID)
		if err != nil {
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		wallet.TotalDeposited = wallet.TotalDeposited.Add(amount)
		err = tx.Model(wallet).Updates(map[string]any{
			"balance":         wallet.Balance,
			"total_deposited": wallet.TotalDeposited,
		}).Error
		if err != nil {
			return err
		}

		code, err := s.codes.Next(tx, codes.Transaction)
		if err != nil {
			return err
		}
		txn = models.Transaction{
			DisplayCode: code,
			UserID:      investor.ID,
			WalletID:    wallet.ID,
			Type:        "deposit",
			Amount:      amount,
			Status:      "completed",
			Description: "User deposit",
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		return s.bus.Publish(tx, events.WalletCredited, events.WalletCreditedEvent{
			UserID:          investor.ID,
			UserCode:        investor.DisplayCode,
			WalletID:        wallet.ID,
			Amount:          amount,
			NewBalance:      wallet.Balance,
			TransactionID:   txn.ID,
			TransactionCode: code,
			Description:     "User deposit",
		})
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Withdraw debits the wallet after a balance check, same rules as the
// settlement debit: never below zero.
func (s *Service) Withdraw(ctx context.Context, investorRef string, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrInvalidArgument)
	}

	var txn models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
		wallet.TotalWithdrawn = wallet.TotalWithdrawn.Add(amount)
		err = tx.Model(wallet).Updates(map[string]any{
			"balance":         wallet.Balance,
			"total_withdrawn": wallet.TotalWithdrawn,
		}).Error
		if err != nil {
			return err
		}

		code, err := s.codes.Next(tx, codes.Transaction)
		if err != nil {
			return err
		}
		txn = models.Transaction{
			DisplayCode: code,
			UserID:      investor.ID,
			WalletID:    wallet.ID,
			Type:        "withdrawal",
			Amount:      amount,
			Status:      "completed",
			Description: "User withdrawal",
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ByUser returns the wallet for an investor reference.
func (s *Service) ByUser(ctx context.Context, investorRef string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		investor, err := resolve.User(tx, investorRef)
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", investor.ID).First(&wallet).Error
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
