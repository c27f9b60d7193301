// Package organizations manages asset issuers. Liquidity starts at
// zero and only grows through settled investment inflows.
package organizations

import (
	"context"
	"fmt"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/money"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	codes codes.Generator
}

func New(db *gorm.DB, gen codes.Generator) *Service {
	return &Service{db: db, codes: gen}
}

func (s *Service) Create(ctx context.Context, name, description, website string) (*models.Organization, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrInvalidArgument)
	}
	var org models.Organization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.codes.Next(tx, codes.Organization)
		if err != nil {
			return err
		}
		org = models.Organization{
			DisplayCode: code,
			Name:        name,
			Description: description,
			Website:     website,
			Liquidity:   money.Zero,
		}
		return tx.Create(&org).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (s *Service) Get(ctx context.Context, ref string) (*models.Organization, error) {
	return resolve.Organization(s.db.WithContext(ctx), ref)
}

func (s *Service) List(ctx context.Context) ([]models.Organization, error) {
	var out []models.Organization
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}
