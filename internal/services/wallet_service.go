package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// rechargeStore is the slice of RechargeRepository the wallet flow needs.
type rechargeStore interface {
	GetProvider(ctx context.Context, id uuid.UUID) (*models.RechargeProvider, error)
	CreateTransaction(ctx context.Context, transaction *models.RechargeTransaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.RechargeTransaction, error)
	UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.RechargeTransactionStatus) (*models.RechargeTransaction, error)
}

// WalletService implements wallet credits/debits and the recharge flow
// that rides on them.
type WalletService struct {
	wallet   repository.WalletRepository
	recharge rechargeStore
	logger   *logrus.Entry
}

func NewWalletService(wallet repository.WalletRepository, recharge rechargeStore, logger *logrus.Logger) *WalletService {
	return &WalletService{
		wallet:   wallet,
		recharge: recharge,
		logger:   logger.WithField("component", "wallet-service"),
	}
}

// Credit adds funds to a customer wallet and records the ledger entry.
func (s *WalletService) Credit(ctx context.Context, customerID uuid.UUID, amount float64, note string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}
	entry, err := s.wallet.Credit(ctx, customerID, amount, note, "")
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"customerId": customerID,
		"amount":     amount,
	}).Info("Wallet credited")
	return entry, nil
}

// Debit withdraws funds. Returns models.ErrInsufficientFunds when the
// balance does not cover the amount.
func (s *WalletService) Debit(ctx context.Context, customerID uuid.UUID, amount float64, note string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive")
	}
	entry, err := s.wallet.Debit(ctx, customerID, amount, note, "")
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"customerId": customerID,
		"amount":     amount,
	}).Info("Wallet debited")
	return entry, nil
}

// History returns the customer's ledger, newest first.
func (s *WalletService) History(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.WalletTransaction, int64, error) {
	return s.wallet.ListTransactions(ctx, customerID, page, limit)
}

// CreateRecharge debits the wallet and records a PENDING recharge
// transaction. The debit and the record are separate writes; a failed
// record after a successful debit is compensated with a credit.
func (s *WalletService) CreateRecharge(ctx context.Context, customerID uuid.UUID, req *models.CreateRechargeRequest) (*models.RechargeTransaction, error) {
	if _, err := s.recharge.GetProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	transaction := &models.RechargeTransaction{
		CustomerID:   customerID,
		ProviderID:   req.ProviderID,
		PlanID:       req.PlanID,
		TargetNumber: req.TargetNumber,
		Amount:       req.Amount,
		Status:       models.RechargePending,
	}

	if _, err := s.wallet.Debit(ctx, customerID, req.Amount, "Recharge "+req.TargetNumber, ""); err != nil {
		return nil, err
	}

	if err := s.recharge.CreateTransaction(ctx, transaction); err != nil {
		if _, creditErr := s.wallet.Credit(ctx, customerID, req.Amount, "Recharge reversal", ""); creditErr != nil {
			s.logger.WithError(creditErr).WithField("customerId", customerID).
				Error("Failed to reverse wallet debit after recharge record failure")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customerId": customerID,
		"amount":     req.Amount,
		"target":     req.TargetNumber,
	}).Info("Recharge created")
	return transaction, nil
}

// SettleRecharge finalizes a recharge. A FAILED settlement credits the
// amount back to the wallet.
func (s *WalletService) SettleRecharge(ctx context.Context, transactionID uuid.UUID, status models.RechargeTransactionStatus) (*models.RechargeTransaction, error) {
	if status != models.RechargeSuccess && status != models.RechargeFailed {
		return nil, fmt.Errorf("invalid settlement status: %s", status)
	}

	current, err := s.recharge.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.RechargePending {
		return nil, fmt.Errorf("recharge transaction already settled as %s", current.Status)
	}

	updated, err := s.recharge.UpdateTransactionStatus(ctx, transactionID, status)
	if err != nil {
		return nil, err
	}

	if status == models.RechargeFailed {
		reference := transactionID.String()
		if _, err := s.wallet.Credit(ctx, current.CustomerID, current.Amount, "Recharge refund", reference); err != nil {
			s.logger.WithError(err).WithField("transactionId", transactionID).
				Error("Failed to refund wallet for failed recharge")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"transactionId": transactionID,
		"status":        status,
	}).Info("Recharge settled")
	return updated, nil
}
