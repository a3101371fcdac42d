package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/skyfare/internal/domain"
)

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	// DeductIfSufficient subtracts amount in a single conditional update.
	// ok is false when the balance predicate was not met; no row is changed
	// in that case.
	DeductIfSufficient(ctx context.Context, userID string, amount int64) (newBalance int64, ok bool, err error)
}

type PGWalletRepository struct {
	db              *pgxpool.Pool
	startingBalance int64
	currency        string
}

func NewWalletRepository(db *pgxpool.Pool, startingBalance int64, currency string) WalletRepository {
	return &PGWalletRepository{db: db, startingBalance: startingBalance, currency: currency}
}

func (r *PGWalletRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	_, err := r.db.Exec(ctx, `INSERT INTO wallets (user_id, balance, currency, last_updated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO NOTHING`, userID, r.startingBalance, r.currency)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `SELECT user_id, balance, currency, last_updated FROM wallets WHERE user_id=$1`, userID)
	var w domain.Wallet
	if err := row.Scan(&w.UserID, &w.Balance, &w.Currency, &w.LastUpdated); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PGWalletRepository) DeductIfSufficient(ctx context.Context, userID string, amount int64) (int64, bool, error) {
	// The balance >= amount predicate is the whole concurrency story: two
	// simultaneous deductions for the same user are serialized by the row
	// update, and the loser sees zero rows affected.
	row := r.db.QueryRow(ctx, `UPDATE wallets
		SET balance = balance - $1, last_updated = now()
		WHERE user_id = $2 AND balance >= $1
		RETURNING balance`, amount, userID)

	var balance int64
	if err := row.Scan(&balance); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return balance, true, nil
}

var _ WalletRepository = (*PGWalletRepository)(nil)
