package users

import (
	"context"
	"errors"
	"testing"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/events"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/store/storetest"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	db := storetest.Open(t)
	return db, New(db, codes.NewMemory(), events.NewBus(db))
}

func TestRegister(t *testing.T) {
	db, svc := newService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@test.com",
		Phone:    "+920000000001",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.DisplayCode != "USR-000001" {
		t.Errorf("display code = %q, want USR-000001", user.DisplayCode)
	}
	if user.Password == "password123" {
		t.Error("password stored in clear")
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
		t.Fatalf("wallet not created: %v", err)
	}
	if !wallet.Balance.IsZero() {
		t.Errorf("initial balance = %s, want 0", wallet.Balance)
	}

	var kyc models.KycVerification
	if err := db.Where("user_id = ?", user.ID).First(&kyc).Error; err != nil {
		t.Fatalf("kyc not created: %v", err)
	}
	if kyc.Status != "pending" {
		t.Errorf("kyc status = %q, want pending", kyc.Status)
	}

	var portfolio models.Portfolio
	if err := db.Where("user_id = ?", user.ID).First(&portfolio).Error; err != nil {
		t.Fatalf("portfolio not created: %v", err)
	}

	var n int64
	db.Model(&models.OutboxEvent{}).Where("name = ?", events.UserCreated).Count(&n)
	if n != 1 {
		t.Errorf("user.created events = %d, want 1", n)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	_, svc := newService(t)
	_, err := svc.Register(context.Background(), RegisterInput{FullName: "Nobody"})
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestAuthenticate(t *testing.T) {
	_, svc := newService(t)

	if _, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Ada", Email: "ada@test.com", Password: "password123",
	}); err != nil {
		t.Fatal(err)
	}

	user, err := svc.Authenticate(context.Background(), "ada@test.com", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "ada@test.com" {
		t.Errorf("email = %q", user.Email)
	}

	if _, err := svc.Authenticate(context.Background(), "ada@test.com", "wrong"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("bad password: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@test.com", "password123"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown email: err = %v, want ErrNotFound", err)
	}
}

func TestVerifyKyc(t *testing.T) {
	db, svc := newService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Ada", Email: "ada@test.com", Password: "password123",
	})
	if err != nil {
		t.Fatal(err)
	}

	kyc, err := svc.VerifyKyc(context.Background(), user.DisplayCode, "compliance-bot")
	if err != nil {
		t.Fatalf("verify kyc: %v", err)
	}
	if kyc.Status != "verified" || kyc.Reviewer != "compliance-bot" {
		t.Errorf("kyc = %s/%s", kyc.Status, kyc.Reviewer)
	}
	if kyc.ReviewedAt == nil {
		t.Error("reviewed_at not stamped")
	}

	var n int64
	db.Model(&models.OutboxEvent{}).Where("name = ?", events.KycVerified).Count(&n)
	if n != 1 {
		t.Errorf("kyc.verified events = %d, want 1", n)
	}

	// no pending record remains
	if _, err := svc.VerifyKyc(context.Background(), user.DisplayCode, "compliance-bot"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("second verify: err = %v, want ErrNotFound", err)
	}
}
