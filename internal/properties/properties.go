// Package properties handles issuance of tokenized assets. Price per
// token is fixed at creation: totalValue / totalTokens at the ledger
// scale.
package properties

import (
	"context"
	"fmt"

	"github.com/RobasAhmedShah/hmr-backend/internal/codes"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/money"
	"github.com/RobasAhmedShah/hmr-backend/internal/resolve"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	codes codes.Generator
}

func New(db *gorm.DB, gen codes.Generator) *Service {
	return &Service{db: db, codes: gen}
}

type CreateInput struct {
	OrganizationRef string
	Title           string
	Type            string
	City            string
	Country         string
	TotalValue      decimal.Decimal
	TotalTokens     decimal.Decimal
	ExpectedROI     decimal.Decimal
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Property, error) {
	if !in.TotalValue.IsPositive() || !in.TotalTokens.IsPositive() {
		return nil, fmt.Errorf("%w: total value and tokens must be positive", errs.ErrInvalidArgument)
	}

	var property models.Property
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := resolve.Organization(tx, in.OrganizationRef)
		if err != nil {
			return err
		}
		code, err := s.codes.Next(tx, codes.Property)
		if err != nil {
			return err
		}
		property = models.Property{
			DisplayCode:     code,
			OrganizationID:  org.ID,
			Title:           in.Title,
			Type:            in.Type,
			Status:          "active",
			City:            in.City,
			Country:         in.Country,
			TotalValue:      money.Quantize(in.TotalValue),
			TotalTokens:     in.TotalTokens,
			AvailableTokens: in.TotalTokens,
			PricePerToken:   money.Quantize(in.TotalValue.Div(in.TotalTokens)),
			ExpectedROI:     in.ExpectedROI,
		}
		return tx.Create(&property).Error
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *Service) Get(ctx context.Context, ref string) (*models.Property, error) {
	return resolve.Property(s.db.WithContext(ctx), ref)
}

func (s *Service) List(ctx context.Context) ([]models.Property, error) {
	var out []models.Property
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}
