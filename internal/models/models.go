package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	DisplayCode string `gorm:"uniqueIndex;size:32;not null"`
	FullName    string `gorm:"size:255;not null"`
	Email       string `gorm:"uniqueIndex;size:255;not null"`
	Phone       string `gorm:"size:32"`
	Password    string `gorm:"size:255"`
	Role        string `gorm:"size:32;default:user"`
	IsActive    bool   `gorm:"default:true"`
}

// Wallet is an investor's cash position. Balance never goes negative;
// the settlement path validates before debiting under a row lock.
type Wallet struct {
	gorm.Model
	UserID         uint            `gorm:"uniqueIndex;not null"`
	Balance        decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	Locked         decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	TotalDeposited decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	TotalWithdrawn decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
}

type Organization struct {
	gorm.Model
	DisplayCode string          `gorm:"uniqueIndex;size:32;not null"`
	Name        string          `gorm:"uniqueIndex;size:255;not null"`
	Description string          `gorm:"type:text"`
	Website     string          `gorm:"size:255"`
	Liquidity   decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
}

// Property is a tokenized asset. AvailableTokens only decreases, and
// only inside a settlement transaction holding the property's row lock.
type Property struct {
	gorm.Model
	DisplayCode     string          `gorm:"uniqueIndex;size:32;not null"`
	OrganizationID  uint            `gorm:"index;not null"`
	Title           string          `gorm:"size:255;not null"`
	Type            string          `gorm:"size:32"` // residential | commercial | mixed
	Status          string          `gorm:"size:32"` // planning | construction | active | onhold | soldout | completed
	City            string          `gorm:"size:128"`
	Country         string          `gorm:"size:128"`
	TotalValue      decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	TotalTokens     decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	AvailableTokens decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	PricePerToken   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	ExpectedROI     decimal.Decimal `gorm:"type:numeric(5,2)"`
}

type Investment struct {
	gorm.Model
	DisplayCode     string          `gorm:"uniqueIndex;size:32;not null"`
	UserID          uint            `gorm:"index;not null"`
	PropertyID      uint            `gorm:"index;not null"`
	TokensPurchased decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Status          string          `gorm:"size:32;index"` // pending | confirmed | active | sold | cancelled
	PaymentStatus   string          `gorm:"size:32"`       // pending | completed | failed
	ExpectedROI     decimal.Decimal `gorm:"type:numeric(5,2)"`
	CertificatePath string          `gorm:"size:512"`
}

// Transaction is the append-only ledger. Rows are never updated after
// creation; every settlement writes at least the investor side and the
// issuer inflow side.
type Transaction struct {
	gorm.Model
	DisplayCode    string          `gorm:"uniqueIndex;size:32;not null"`
	UserID         uint            `gorm:"index"`
	WalletID       uint            `gorm:"index"`
	OrganizationID uint            `gorm:"index"`
	PropertyID     uint            `gorm:"index"`
	Type           string          `gorm:"size:32;not null"` // deposit | withdrawal | investment | return | fee | reward | inflow
	Amount         decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Status         string          `gorm:"size:32;not null"` // pending | completed | failed
	ReferenceID    uint            `gorm:"index"`
	Description    string          `gorm:"type:text"`
	FromEntity     string          `gorm:"size:255"`
	ToEntity       string          `gorm:"size:255"`
}

type Reward struct {
	gorm.Model
	DisplayCode  string          `gorm:"uniqueIndex;size:32;not null"`
	UserID       uint            `gorm:"index;not null"`
	InvestmentID uint            `gorm:"index;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Type         string          `gorm:"size:32"` // roi | referral | bonus
	Status       string          `gorm:"size:32"` // pending | distributed
	Description  string          `gorm:"type:text"`
}

// Portfolio is the per-investor aggregate, written only by the
// consistency listeners and therefore eventually consistent with the
// Investment and Reward rows.
type Portfolio struct {
	gorm.Model
	UserID            uint            `gorm:"uniqueIndex;not null"`
	TotalInvested     decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	TotalRewards      decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	TotalROI          decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0"`
	ActiveInvestments int             `gorm:"default:0"`
	LastUpdated       *time.Time
}

type KycVerification struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null"`
	Type       string `gorm:"size:32"` // cnic | passport
	Status     string `gorm:"size:32"` // pending | verified | rejected
	Reviewer   string `gorm:"size:255"`
	ReviewedAt *time.Time
}

type PaymentMethod struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	Type      string `gorm:"size:32"`  // card | bank | crypto
	Provider  string `gorm:"size:64"`  // e.g. "Visa", "Pending Verification"
	Status    string `gorm:"size:32"`  // pending | verified | disabled
	IsDefault bool   `gorm:"default:false"`
}

type Certificate struct {
	gorm.Model
	InvestmentID  uint   `gorm:"index;not null"`
	TransactionID uint   `gorm:"index;not null"`
	Path          string `gorm:"size:512;not null"`
	Status        string `gorm:"size:32"` // generated | failed
}

// OutboxEvent is the transactional outbox: the settlement path inserts
// intent rows in its own transaction and the dispatcher delivers them
// to listeners after commit.
type OutboxEvent struct {
	gorm.Model
	EventID      string `gorm:"uniqueIndex;size:64;not null"`
	Name         string `gorm:"index;size:64;not null"`
	Payload      []byte `gorm:"type:jsonb"`
	Status       string `gorm:"index;size:32;not null;default:pending"` // pending | dispatched
	Attempts     int    `gorm:"default:0"`
	LastError    string `gorm:"type:text"`
	DispatchedAt *time.Time
}
