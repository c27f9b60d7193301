package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payloads carry both the opaque row ids and the display codes of every
// referenced entity so consumers never need extra lookups.

type InvestmentCompletedEvent struct {
	UserID           uint            `json:"userId"`
	UserCode         string          `json:"userCode"`
	PropertyID       uint            `json:"propertyId"`
	PropertyCode     string          `json:"propertyCode"`
	OrganizationID   uint            `json:"organizationId"`
	OrganizationCode string          `json:"organizationCode"`
	InvestmentID     uint            `json:"investmentId"`
	InvestmentCode   string          `json:"investmentCode"`
	TransactionID    uint            `json:"transactionId"`
	TransactionCode  string          `json:"transactionCode"`
	TokensPurchased  decimal.Decimal `json:"tokensPurchased"`
	Amount           decimal.Decimal `json:"amount"`
}

type RewardDistributedEvent struct {
	UserID         uint            `json:"userId"`
	UserCode       string          `json:"userCode"`
	PropertyID     uint            `json:"propertyId"`
	PropertyCode   string          `json:"propertyCode"`
	OrganizationID uint            `json:"organizationId"`
	RewardID       uint            `json:"rewardId"`
	RewardCode     string          `json:"rewardCode"`
	Amount         decimal.Decimal `json:"amount"`
}

type UserCreatedEvent struct {
	UserID      uint   `json:"userId"`
	UserCode    string `json:"userCode"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	WalletID    uint   `json:"walletId"`
	PortfolioID uint   `json:"portfolioId"`
	KycID       uint   `json:"kycId"`
}

type KycVerifiedEvent struct {
	UserID           uint      `json:"userId"`
	UserCode         string    `json:"userCode"`
	KycID            uint      `json:"kycId"`
	Status           string    `json:"status"`
	VerificationDate time.Time `json:"verificationDate"`
}

type WalletCreditedEvent struct {
	UserID          uint            `json:"userId"`
	UserCode        string          `json:"userCode"`
	WalletID        uint            `json:"walletId"`
	Amount          decimal.Decimal `json:"amount"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	TransactionID   uint            `json:"transactionId"`
	TransactionCode string          `json:"transactionCode"`
	Description     string          `json:"description"`
}

type PaymentMethodEvent struct {
	UserID          uint   `json:"userId"`
	UserCode        string `json:"userCode"`
	PaymentMethodID uint   `json:"paymentMethodId"`
	Type            string `json:"type"`
	Provider        string `json:"provider"`
	Status          string `json:"status"`
}
