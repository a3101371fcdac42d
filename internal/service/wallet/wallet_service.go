package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/skyfare/internal/domain"
	"github.com/zvrva/skyfare/internal/repository"
)

type LedgerUseCase interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	Deduct(ctx context.Context, userID string, amount int64) (*DeductionResult, error)
}

type DeductionResult struct {
	NewBalance    int64
	TransactionID string
}

// WalletService is the authoritative balance store. All mutations go through
// Deduct, which rests entirely on the repository's conditional update: there
// is no read-then-write anywhere, so two concurrent deductions for the same
// user can never overdraw.
type WalletService struct {
	wallets repository.WalletRepository
	logger  *logrus.Logger
}

func NewWalletService(wallets repository.WalletRepository, logger *logrus.Logger) *WalletService {
	return &WalletService{wallets: wallets, logger: logger}
}

func (s *WalletService) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) Deduct(ctx context.Context, userID string, amount int64) (*DeductionResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// Wallet must exist before the conditional update can observe a balance.
	if _, err := s.wallets.GetOrCreate(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure wallet: %w", err)
	}

	newBalance, ok, err := s.wallets.DeductIfSufficient(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("deduct from wallet: %w", err)
	}
	if !ok {
		current, err := s.wallets.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("read balance after refused deduction: %w", err)
		}
		return nil, &domain.InsufficientFundsError{Balance: current.Balance}
	}

	txnID := "txn_" + uuid.NewString()
	s.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"amount":         amount,
		"new_balance":    newBalance,
		"transaction_id": txnID,
	}).Info("wallet deduction succeeded")

	return &DeductionResult{NewBalance: newBalance, TransactionID: txnID}, nil
}

var _ LedgerUseCase = (*WalletService)(nil)
