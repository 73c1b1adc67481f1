package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admin-service/internal/models"
)

// WalletRepository defines wallet balance and ledger operations. Balance
// mutations and their ledger entries commit in one transaction; debits
// use a conditional update so the balance can never go negative.
type WalletRepository interface {
	Credit(ctx context.Context, customerID uuid.UUID, amount float64, note, reference string) (*models.WalletTransaction, error)
	Debit(ctx context.Context, customerID uuid.UUID, amount float64, note, reference string) (*models.WalletTransaction, error)
	ListTransactions(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Credit(ctx context.Context, customerID uuid.UUID, amount float64, note, reference string) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Customer{}).
			Where("id = ?", customerID).
			UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
		if result.Error != nil {
			return fmt.Errorf("failed to credit wallet: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrCustomerNotFound
		}
		return r.recordEntry(tx, customerID, models.WalletCredit, amount, note, reference, &entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *walletRepository) Debit(ctx context.Context, customerID uuid.UUID, amount float64, note, reference string) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Customer{}).
			Where("id = ? AND wallet_balance >= ?", customerID, amount).
			UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
		if result.Error != nil {
			return fmt.Errorf("failed to debit wallet: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to debit wallet: %w", err)
			}
			if count == 0 {
				return models.ErrCustomerNotFound
			}
			return models.ErrInsufficientFunds
		}
		return r.recordEntry(tx, customerID, models.WalletDebit, amount, note, reference, &entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// recordEntry reads the post-update balance inside the transaction and
// appends the ledger row.
func (r *walletRepository) recordEntry(tx *gorm.DB, customerID uuid.UUID, txType models.WalletTransactionType, amount float64, note, reference string, out **models.WalletTransaction) error {
	var customer models.Customer
	if err := tx.Select("wallet_balance").First(&customer, "id = ?", customerID).Error; err != nil {
		return fmt.Errorf("failed to read wallet balance: %w", err)
	}

	entry := &models.WalletTransaction{
		CustomerID:   customerID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: customer.WalletBalance,
		Note:         note,
		Reference:    reference,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record wallet transaction: %w", err)
	}
	*out = entry
	return nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var transactions []models.WalletTransaction
	if err := query.Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return transactions, total, nil
}
