package db

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"tower-climb/internal/ledger"
)

// Redemption is one redeemed purchase token, kept for audit.
type Redemption struct {
	Token      string
	GoldAmount int
}

// RedemptionStore persists redeemed purchase tokens so a grant survives as a
// durable, once-only record. It satisfies ledger.TokenStore.
type RedemptionStore interface {
	Redeem(token string, amount int) error
	GetRedemption(token string) (Redemption, error)
}

type redemptionStoreImplementation struct {
	db *sql.DB
}

func NewRedemptionStore(dbConn *sql.DB) RedemptionStore {
	return &redemptionStoreImplementation{db: dbConn}
}

const uniqueViolation = "23505"

func (r *redemptionStoreImplementation) Redeem(token string, amount int) error {
	_, err := r.db.Exec(
		"INSERT INTO purchase_redemptions (token, gold_amount) VALUES ($1, $2)",
		token, amount,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("token %q: %w", token, ledger.ErrDuplicateToken)
		}
		return fmt.Errorf("failed to record redemption for %q: %w", token, err)
	}
	return nil
}

func (r *redemptionStoreImplementation) GetRedemption(token string) (Redemption, error) {
	var red Redemption
	err := r.db.QueryRow(
		"SELECT token, gold_amount FROM purchase_redemptions WHERE token=$1",
		token,
	).Scan(&red.Token, &red.GoldAmount)
	if err != nil {
		return Redemption{}, fmt.Errorf("failed to get redemption for %q: %w", token, err)
	}
	return red, nil
}
