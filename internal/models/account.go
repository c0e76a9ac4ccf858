package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a customer's identity and the materialized balance.
// Balance is only ever changed together with the transaction row that
// justifies the change, inside one store-level atomic unit.
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Contact       string          `json:"contact"`
	PasswordHash  string          `json:"-"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
}
