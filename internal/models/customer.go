package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a storefront account the admin dashboard can inspect.
type Customer struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Phone         string    `json:"phone" gorm:"type:varchar(20);index"`
	WalletBalance float64   `json:"walletBalance" gorm:"type:decimal(10,2);default:0"`
	Active        bool      `json:"active" gorm:"default:true"`

	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Customer) TableName() string {
	return "customers"
}

// Address is a customer delivery address.
type Address struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID uuid.UUID `json:"customerId" gorm:"type:uuid;not null;index"`
	Label      string    `json:"label" gorm:"type:varchar(50)"` // Home, Work
	Line1      string    `json:"line1" gorm:"type:varchar(255);not null"`
	Line2      string    `json:"line2,omitempty" gorm:"type:varchar(255)"`
	City       string    `json:"city" gorm:"type:varchar(100)"`
	State      string    `json:"state" gorm:"type:varchar(100)"`
	PostalCode string    `json:"postalCode" gorm:"type:varchar(20)"`
	IsDefault  bool      `json:"isDefault" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Address) TableName() string {
	return "addresses"
}

// WalletTransactionType distinguishes credits from debits.
type WalletTransactionType string

const (
	WalletCredit WalletTransactionType = "CREDIT"
	WalletDebit  WalletTransactionType = "DEBIT"
)

// WalletTransaction is an immutable ledger entry. BalanceAfter captures
// the wallet balance at commit time so history reads never recompute.
type WalletTransaction struct {
	ID           uuid.UUID             `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID   uuid.UUID             `json:"customerId" gorm:"type:uuid;not null;index:idx_wallet_tx_customer"`
	Type         WalletTransactionType `json:"type" gorm:"type:varchar(10);not null"`
	Amount       float64               `json:"amount" gorm:"type:decimal(10,2);not null"`
	BalanceAfter float64               `json:"balanceAfter" gorm:"type:decimal(10,2);not null"`
	Note         string                `json:"note,omitempty" gorm:"type:varchar(255)"`
	Reference    string                `json:"reference,omitempty" gorm:"type:varchar(100);index"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_wallet_tx_created,sort:desc"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// RechargeProvider is a mobile/DTH operator whose plans the store resells.
type RechargeProvider struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name    string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Kind    string    `json:"kind" gorm:"type:varchar(30)"` // MOBILE, DTH
	LogoURL string    `json:"logoUrl,omitempty" gorm:"type:varchar(500)"`
	Active  bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (RechargeProvider) TableName() string {
	return "recharge_providers"
}

// RechargePlan is a purchasable denomination under a provider.
type RechargePlan struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProviderID  uuid.UUID `json:"providerId" gorm:"type:uuid;not null;index"`
	Amount      float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Validity    string    `json:"validity,omitempty" gorm:"type:varchar(50)"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Active      bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (RechargePlan) TableName() string {
	return "recharge_plans"
}

// RechargeTransactionStatus is the settlement state of a recharge.
type RechargeTransactionStatus string

const (
	RechargePending RechargeTransactionStatus = "PENDING"
	RechargeSuccess RechargeTransactionStatus = "SUCCESS"
	RechargeFailed  RechargeTransactionStatus = "FAILED"
)

// RechargeTransaction records a recharge purchased against a customer.
// The wallet debit happens when the transaction is created; a FAILED
// settlement credits the amount back.
type RechargeTransaction struct {
	ID           uuid.UUID                 `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID   uuid.UUID                 `json:"customerId" gorm:"type:uuid;not null;index"`
	ProviderID   uuid.UUID                 `json:"providerId" gorm:"type:uuid;not null"`
	PlanID       *uuid.UUID                `json:"planId,omitempty" gorm:"type:uuid"`
	TargetNumber string                    `json:"targetNumber" gorm:"type:varchar(20);not null"`
	Amount       float64                   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status       RechargeTransactionStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RechargeTransaction) TableName() string {
	return "recharge_transactions"
}

// UpdateCustomerRequest is the payload for customer profile edits
type UpdateCustomerRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Active *bool   `json:"active"`
}

// WalletAdjustRequest is the payload for manual wallet credits/debits
type WalletAdjustRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Note   string  `json:"note"`
}

// CreateRechargeRequest is the payload for recording a recharge
type CreateRechargeRequest struct {
	ProviderID   uuid.UUID  `json:"providerId" binding:"required"`
	PlanID       *uuid.UUID `json:"planId"`
	TargetNumber string     `json:"targetNumber" binding:"required"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
}
