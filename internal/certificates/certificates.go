// Package certificates records ownership certificates for settled
// investments. Rendering is handled elsewhere; this only writes the
// certificate row and stamps the path on the investment.
package certificates

import (
	"context"
	"fmt"

	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Generate creates the certificate record for a settled investment and
// its ledger transaction.
func (s *Service) Generate(ctx context.Context, transactionID, investmentID uint) (*models.Certificate, error) {
	var cert models.Certificate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Investment
		if err := tx.First(&inv, investmentID).Error; err != nil {
			return err
		}
		cert = models.Certificate{
			InvestmentID:  investmentID,
			TransactionID: transactionID,
			Path:          fmt.Sprintf("certificates/%s.pdf", inv.DisplayCode),
			Status:        "generated",
		}
		if err := tx.Create(&cert).Error; err != nil {
			return err
		}
		return tx.Model(&inv).Update("certificate_path", cert.Path).Error
	})
	if err != nil {
		return nil, err
	}
	return &cert, nil
}
