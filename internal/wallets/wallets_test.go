package wallets

import (
	"context"
	"errors"
	"testing"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/store/storetest"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setup(t *testing.T) (*gorm.DB, *Service, models.User) {
	t.Helper()
	db := storetest.Open(t)
	user := models.User{DisplayCode: "USR-000001", FullName: "Ada", Email: "ada@test.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	wallet := models.Wallet{UserID: user.ID, Balance: d("0")}
	if err := db.Create(&wallet).Error; err != nil {
		t.Fatal(err)
	}
	return db, New(db, codes.NewMemory(), events.NewBus(db)), user
}

func TestDeposit(t *testing.T) {
	db, svc, user := setup(t)

	txn, err := svc.Deposit(context.Background(), user.DisplayCode, d("250.50"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if txn.Type != "deposit" || txn.Status != "completed" {
		t.Errorf("txn = %s/%s", txn.Type, txn.Status)
	}
	if txn.DisplayCode != "TXN-000001" {
		t.Errorf("display code = %q", txn.DisplayCode)
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
		t.Fatal(err)
	}
	if !wallet.Balance.Equal(d("250.50")) {
		t.Errorf("balance = %s, want 250.50", wallet.Balance)
	}
	if !wallet.TotalDeposited.Equal(d("250.50")) {
		t.Errorf("total deposited = %s, want 250.50", wallet.TotalDeposited)
	}

	var outbox int64
	db.Model(&models.OutboxEvent{}).Where("name = ?", events.WalletCredited).Count(&outbox)
	if outbox != 1 {
		t.Errorf("wallet.credited events = %d, want 1", outbox)
	}
}

func TestWithdraw(t *testing.T) {
	db, svc, user := setup(t)

	if _, err := svc.Deposit(context.Background(), user.DisplayCode, d("100")); err != nil {
		t.Fatal(err)
	}
	txn, err := svc.Withdraw(context.Background(), user.DisplayCode, d("40"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if txn.Type != "withdrawal" {
		t.Errorf("txn type = %q", txn.Type)
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
		t.Fatal(err)
	}
	if !wallet.Balance.Equal(d("60")) {
		t.Errorf("balance = %s, want 60", wallet.Balance)
	}
	if !wallet.TotalWithdrawn.Equal(d("40")) {
		t.Errorf("total withdrawn = %s, want 40", wallet.TotalWithdrawn)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	db, svc, user := setup(t)

	if _, err := svc.Deposit(context.Background(), user.DisplayCode, d("10")); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Withdraw(context.Background(), user.DisplayCode, d("10.000001"))
	if !errors.Is(err, errs.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
		t.Fatal(err)
	}
	if !wallet.Balance.Equal(d("10")) {
		t.Errorf("balance = %s, want unchanged 10", wallet.Balance)
	}
	var n int64
	db.Model(&models.Transaction{}).Where("type = ?", "withdrawal").Count(&n)
	if n != 0 {
		t.Errorf("withdrawal rows = %d, want 0", n)
	}
}

func TestDepositRejectsNonPositive(t *testing.T) {
	_, svc, user := setup(t)
	for _, amount := range []string{"0", "-5"} {
		if _, err := svc.Deposit(context.Background(), user.DisplayCode, d(amount)); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Errorf("deposit %s: err = %v, want ErrInvalidArgument", amount, err)
		}
	}
}

func TestDepositUnknownInvestor(t *testing.T) {
	_, svc, _ := setup(t)
	_, err := svc.Deposit(context.Background(), "USR-999999", d("10"))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestByUser(t *testing.T) {
	_, svc, user := setup(t)
	wallet, err := svc.ByUser(context.Background(), user.DisplayCode)
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if wallet.UserID != user.ID {
		t.Errorf("wallet user = %d, want %d", wallet.UserID, user.ID)
	}
}
