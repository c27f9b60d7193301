package properties

import (
	"context"
	"errors"
	"testing"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/store/storetest"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(t *testing.T) (*gorm.DB, *Service, models.Organization) {
	t.Helper()
	db := storetest.Open(t)
	org := models.Organization{DisplayCode: "ORG-000001", Name: "Issuer"}
	if err := db.Create(&org).Error; err != nil {
		t.Fatal(err)
	}
	return db, New(db, codes.NewMemory()), org
}

func TestCreateFixesPricePerToken(t *testing.T) {
	_, svc, org := newService(t)

	p, err := svc.Create(context.Background(), CreateInput{
		OrganizationRef: org.DisplayCode,
		Title:           "Marina Heights Tower",
		Type:            "residential",
		City:            "Karachi",
		Country:         "PK",
		TotalValue:      d("10000"),
		TotalTokens:     d("1000"),
		ExpectedROI:     d("12.5"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.DisplayCode != "PROP-000001" {
		t.Errorf("display code = %q", p.DisplayCode)
	}
	if !p.PricePerToken.Equal(d("10")) {
		t.Errorf("price per token = %s, want 10", p.PricePerToken)
	}
	if !p.AvailableTokens.Equal(p.TotalTokens) {
		t.Errorf("available = %s, want %s", p.AvailableTokens, p.TotalTokens)
	}
	if p.Status != "active" {
		t.Errorf("status = %q, want active", p.Status)
	}
}

func TestCreateTruncatesPrice(t *testing.T) {
	_, svc, org := newService(t)

	// 100 / 3 does not divide evenly; price truncates at the ledger scale
	p, err := svc.Create(context.Background(), CreateInput{
		OrganizationRef: org.DisplayCode,
		Title:           "Odd Lot",
		TotalValue:      d("100"),
		TotalTokens:     d("3"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.PricePerToken.Equal(d("33.333333")) {
		t.Errorf("price per token = %s, want 33.333333", p.PricePerToken)
	}
}

func TestCreateValidation(t *testing.T) {
	_, svc, org := newService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		OrganizationRef: org.DisplayCode,
		TotalValue:      d("0"),
		TotalTokens:     d("100"),
	})
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("zero value: err = %v, want ErrInvalidArgument", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		OrganizationRef: "ORG-999999",
		TotalValue:      d("100"),
		TotalTokens:     d("10"),
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown issuer: err = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	_, svc, org := newService(t)

	for _, title := range []string{"A", "B"} {
		if _, err := svc.Create(context.Background(), CreateInput{
			OrganizationRef: org.DisplayCode,
			Title:           title,
			TotalValue:      d("100"),
			TotalTokens:     d("10"),
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("list = %+v", got)
	}
}
