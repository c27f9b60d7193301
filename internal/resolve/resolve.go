// Package resolve turns an external reference into a row. A reference
// is either the numeric row id or the human-readable display code
// (USR-000042, PROP-000010, ...). The format is sniffed once here, not
// at every call site.
package resolve

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func numeric(ref string) (uint64, bool) {
	n, err := strconv.ParseUint(ref, 10, 64)
	return n, err == nil
}

func first[T any](tx *gorm.DB, out *T, ref, entity string) error {
	var err error
	if id, ok := numeric(ref); ok {
		err = tx.First(out, id).Error
	} else {
		err = tx.Where("display_code = ?", ref).First(out).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %q", errs.ErrNotFound, entity, ref)
	}
	return err
}

func User(tx *gorm.DB, ref string) (*models.User, error) {
	var u models.User
	if err := first(tx, &u, ref, "user"); err != nil {
		return nil, err
	}
	return &u, nil
}

func Property(tx *gorm.DB, ref string) (*models.Property, error) {
	var p models.Property
	if err := first(tx, &p, ref, "property"); err != nil {
		return nil, err
	}
	return &p, nil
}

// PropertyForUpdate resolves and locks the property row. Must be the
// first lock taken on any settlement path.
func PropertyForUpdate(tx *gorm.DB, ref string) (*models.Property, error) {
	var p models.Property
	if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &p, ref, "property"); err != nil {
		return nil, err
	}
	return &p, nil
}

func Organization(tx *gorm.DB, ref string) (*models.Organization, error) {
	var o models.Organization
	if err := first(tx, &o, ref, "organization"); err != nil {
		return nil, err
	}
	return &o, nil
}

func Investment(tx *gorm.DB, ref string) (*models.Investment, error) {
	var inv models.Investment
	if err := first(tx, &inv, ref, "investment"); err != nil {
		return nil, err
	}
	return &inv, nil
}

// WalletForUpdate locks the wallet owned by userID. Locked after the
// property and before the organization on every path.
func WalletForUpdate(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: wallet for user %d", errs.ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// OrganizationForUpdate locks the issuer treasury row. Always the last
// lock in the settlement order.
func OrganizationForUpdate(tx *gorm.DB, id uint) (*models.Organization, error) {
	var o models.Organization
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: organization %d", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
