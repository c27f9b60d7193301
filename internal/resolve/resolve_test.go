package resolve

import (
	"errors"
	"fmt"
	"testing"

	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/store/storetest"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{DisplayCode: "USR-000042", FullName: "Ada", Email: "ada@test.com"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return u
}

func TestUserByDisplayCode(t *testing.T) {
	db := storetest.Open(t)
	seeded := seedUser(t, db)

	u, err := User(db, "USR-000042")
	if err != nil {
		t.Fatalf("resolve by code: %v", err)
	}
	if u.ID != seeded.ID {
		t.Errorf("id = %d, want %d", u.ID, seeded.ID)
	}
}

func TestUserByNumericID(t *testing.T) {
	db := storetest.Open(t)
	seeded := seedUser(t, db)

	u, err := User(db, fmt.Sprint(seeded.ID))
	if err != nil {
		t.Fatalf("resolve by id: %v", err)
	}
	if u.DisplayCode != seeded.DisplayCode {
		t.Errorf("code = %q, want %q", u.DisplayCode, seeded.DisplayCode)
	}
}

func TestUserNotFound(t *testing.T) {
	db := storetest.Open(t)
	seedUser(t, db)

	for _, ref := range []string{"USR-999999", "999"} {
		if _, err := User(db, ref); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("ref %q: err = %v, want ErrNotFound", ref, err)
		}
	}
}

func TestPropertyAndOrganization(t *testing.T) {
	db := storetest.Open(t)
	org := models.Organization{DisplayCode: "ORG-000003", Name: "Issuer"}
	if err := db.Create(&org).Error; err != nil {
		t.Fatal(err)
	}
	prop := models.Property{DisplayCode: "PROP-000010", OrganizationID: org.ID, Title: "Tower"}
	if err := db.Create(&prop).Error; err != nil {
		t.Fatal(err)
	}

	p, err := Property(db, "PROP-000010")
	if err != nil {
		t.Fatalf("property: %v", err)
	}
	if p.ID != prop.ID {
		t.Errorf("property id = %d, want %d", p.ID, prop.ID)
	}

	o, err := Organization(db, fmt.Sprint(org.ID))
	if err != nil {
		t.Fatalf("organization: %v", err)
	}
	if o.DisplayCode != "ORG-000003" {
		t.Errorf("organization code = %q", o.DisplayCode)
	}
}

func TestWalletForUpdate(t *testing.T) {
	db := storetest.Open(t)
	u := seedUser(t, db)
	w := models.Wallet{UserID: u.ID}
	if err := db.Create(&w).Error; err != nil {
		t.Fatal(err)
	}

	got, err := WalletForUpdate(db, u.ID)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if got.ID != w.ID {
		t.Errorf("wallet id = %d, want %d", got.ID, w.ID)
	}

	if _, err := WalletForUpdate(db, u.ID+1); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing wallet: err = %v, want ErrNotFound", err)
	}
}
