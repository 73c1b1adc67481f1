package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/models"
)

func newWalletFixture() (*WalletService, *fakeWalletRepository, *fakeRechargeStore) {
	wallet := newFakeWalletRepository()
	recharge := newFakeRechargeStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWalletService(wallet, recharge, logger), wallet, recharge
}

func TestWalletCreditDebit(t *testing.T) {
	service, wallet, _ := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 100

	entry, err := service.Credit(context.Background(), customer, 50, "top-up")
	require.NoError(t, err)
	assert.Equal(t, models.WalletCredit, entry.Type)
	assert.Equal(t, 150.0, entry.BalanceAfter)

	entry, err = service.Debit(context.Background(), customer, 120, "order")
	require.NoError(t, err)
	assert.Equal(t, 30.0, entry.BalanceAfter)
}

func TestWalletDebitInsufficientFunds(t *testing.T) {
	service, wallet, _ := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 10

	_, err := service.Debit(context.Background(), customer, 25, "order")
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.Equal(t, 10.0, wallet.balances[customer])
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	service, wallet, _ := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 10

	_, err := service.Credit(context.Background(), customer, 0, "")
	assert.Error(t, err)
	_, err = service.Debit(context.Background(), customer, -5, "")
	assert.Error(t, err)
}

func TestCreateRechargeDebitsWallet(t *testing.T) {
	service, wallet, recharge := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 500
	provider := recharge.addProvider("Airtel")

	transaction, err := service.CreateRecharge(context.Background(), customer, &models.CreateRechargeRequest{
		ProviderID:   provider.ID,
		TargetNumber: "9876543210",
		Amount:       199,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RechargePending, transaction.Status)
	assert.Equal(t, 301.0, wallet.balances[customer])
}

func TestCreateRechargeInsufficientFunds(t *testing.T) {
	service, wallet, recharge := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 100
	provider := recharge.addProvider("Jio")

	_, err := service.CreateRecharge(context.Background(), customer, &models.CreateRechargeRequest{
		ProviderID:   provider.ID,
		TargetNumber: "9876543210",
		Amount:       199,
	})
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.Empty(t, recharge.transactions)
}

func TestCreateRechargeReversesDebitOnRecordFailure(t *testing.T) {
	service, wallet, recharge := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 500
	provider := recharge.addProvider("Vi")
	recharge.failCreate = errors.New("db down")

	_, err := service.CreateRecharge(context.Background(), customer, &models.CreateRechargeRequest{
		ProviderID:   provider.ID,
		TargetNumber: "9876543210",
		Amount:       199,
	})
	require.Error(t, err)
	assert.Equal(t, 500.0, wallet.balances[customer])
}

func TestSettleRechargeFailureRefunds(t *testing.T) {
	service, wallet, recharge := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 500
	provider := recharge.addProvider("BSNL")

	transaction, err := service.CreateRecharge(context.Background(), customer, &models.CreateRechargeRequest{
		ProviderID:   provider.ID,
		TargetNumber: "9876543210",
		Amount:       100,
	})
	require.NoError(t, err)
	require.Equal(t, 400.0, wallet.balances[customer])

	settled, err := service.SettleRecharge(context.Background(), transaction.ID, models.RechargeFailed)
	require.NoError(t, err)
	assert.Equal(t, models.RechargeFailed, settled.Status)
	assert.Equal(t, 500.0, wallet.balances[customer])

	// A settled transaction cannot be settled again.
	_, err = service.SettleRecharge(context.Background(), transaction.ID, models.RechargeSuccess)
	assert.Error(t, err)
}

func TestSettleRechargeSuccess(t *testing.T) {
	service, wallet, recharge := newWalletFixture()
	customer := uuid.New()
	wallet.balances[customer] = 500
	provider := recharge.addProvider("Airtel")

	transaction, err := service.CreateRecharge(context.Background(), customer, &models.CreateRechargeRequest{
		ProviderID:   provider.ID,
		TargetNumber: "9876543210",
		Amount:       100,
	})
	require.NoError(t, err)

	settled, err := service.SettleRecharge(context.Background(), transaction.ID, models.RechargeSuccess)
	require.NoError(t, err)
	assert.Equal(t, models.RechargeSuccess, settled.Status)
	assert.Equal(t, 400.0, wallet.balances[customer])
}
