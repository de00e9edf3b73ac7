// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
)

var (
	// ErrInsufficientFunds is returned when a wallet cannot cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrWalletInactive is returned for transfers into suspended or closed wallets.
	ErrWalletInactive = errors.New("customer wallet is not active")

	// ErrInvalidAmount is returned for transfers of zero or negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Wallet transactions

// CreateWalletTransaction records a movement on the merchant wallet. Status
// defaults to Completed and a WTX_ reference is generated when empty.
func (s *Store) CreateWalletTransaction(ctx context.Context, t *models.WalletTransaction) error {
	now := s.timestamp()
	if t.Status == "" {
		t.Status = models.PaymentCompleted
	}
	if t.Reference == "" {
		t.Reference = "WTX_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	}
	if t.TransactionType == "" {
		t.TransactionType = t.Type
	}
	id, err := insert(ctx, s.q, "wallet_transactions",
		[]string{"merchant_id", "type", "transaction_type", "amount", "description", "reference", "status",
			"balance_before", "balance_after", "category", "related_id", "related_type", "payment_method",
			"notes", "processed_by", "created_at", "updated_at"},
		t.MerchantID, t.Type, t.TransactionType, t.Amount, t.Description, t.Reference, t.Status,
		t.BalanceBefore, t.BalanceAfter, t.Category, t.RelatedID, t.RelatedType, t.PaymentMethod,
		t.Notes, t.ProcessedBy, now, now)
	if err != nil {
		return err
	}
	t.ID, t.CreatedAt, t.UpdatedAt = id, now, now
	return nil
}

// GetWalletTransaction returns one wallet transaction of the merchant.
func (s *Store) GetWalletTransaction(ctx context.Context, merchantID, id int64) (*models.WalletTransaction, error) {
	return byID[models.WalletTransaction](ctx, s.q, "wallet_transactions", one(id, merchantID))
}

// ListWalletTransactions returns one page of wallet transactions matching f and the total count.
func (s *Store) ListWalletTransactions(ctx context.Context, merchantID int64, f Filter) ([]models.WalletTransaction, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).eq("type", f.Type).search(f.Search, "description", "reference", "category")
	return page[models.WalletTransaction](ctx, s.q, "wallet_transactions", w, "created_at DESC, id DESC", f)
}

// SetWalletTransactionStatus changes the status, which moves the amount
// between the settled and pending balances.
func (s *Store) SetWalletTransactionStatus(ctx context.Context, merchantID, id int64, status string) error {
	return update(ctx, s.q, "wallet_transactions", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, one(id, merchantID))
}

// WalletBalance computes the merchant balance from its transactions.
func (s *Store) WalletBalance(ctx context.Context, merchantID int64, currency string) (models.WalletBalance, error) {
	var entries []finance.WalletEntry
	err := selectAll(ctx, s.q, "wallet_transactions", &entries,
		"SELECT type, status, amount FROM wallet_transactions WHERE merchant_id = ?", merchantID)
	if err != nil {
		return models.WalletBalance{}, err
	}
	return finance.WalletBalance(entries, currency), nil
}

// WalletStats summarises completed wallet movement over a period.
type WalletStats struct {
	Period             string       `json:"period"`
	TotalCredits       models.Money `db:"total_credits" json:"totalCredits"`
	TotalDebits        models.Money `db:"total_debits" json:"totalDebits"`
	NetAmount          models.Money `json:"netAmount"`
	TransactionCount   int64        `db:"transaction_count" json:"transactionCount"`
	AverageTransaction models.Money `json:"averageTransaction"`
}

// WalletStats covers completed transactions in the last days days.
func (s *Store) WalletStats(ctx context.Context, merchantID int64, days int) (*WalletStats, error) {
	if days <= 0 {
		days = 30
	}
	since := s.timestamp().AddDate(0, 0, -days)
	var st WalletStats
	err := get(ctx, s.q, "wallet_transactions", &st, `SELECT
		CAST(COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE 0 END), 0) AS BIGINT) AS total_credits,
		CAST(COALESCE(SUM(CASE WHEN type <> 'credit' THEN amount ELSE 0 END), 0) AS BIGINT) AS total_debits,
		COUNT(*) AS transaction_count
		FROM wallet_transactions WHERE merchant_id = ? AND status = 'Completed' AND created_at >= ?`,
		merchantID, since)
	if err != nil {
		return nil, err
	}
	st.Period = fmt.Sprintf("Last %d days", days)
	st.NetAmount = st.TotalCredits - st.TotalDebits
	if st.TransactionCount > 0 {
		st.AverageTransaction = (st.TotalCredits + st.TotalDebits) / models.Money(st.TransactionCount)
	}
	return &st, nil
}

// Customer wallets

const customerWalletSelect = `SELECT w.*, COALESCE(c.full_name, '') AS customer_name
	FROM customer_wallets w LEFT JOIN customers c ON c.id = w.customer_id`

// CreateCustomerWallet inserts a customer wallet and fills in its id and timestamps.
func (s *Store) CreateCustomerWallet(ctx context.Context, w *models.CustomerWallet) error {
	now := s.timestamp()
	if w.AccountLevel == "" {
		w.AccountLevel = models.DefaultWalletLevel
	}
	if w.Status == "" {
		w.Status = models.CustomerWalletActive
	}
	if w.DailyLimit == 0 {
		w.DailyLimit = models.DefaultWalletDailyLimit
	}
	if w.MonthlyLimit == 0 {
		w.MonthlyLimit = models.DefaultWalletMonthlyLimit
	}
	if w.ActivationDate.IsZero() {
		w.ActivationDate = now
	}
	id, err := insert(ctx, s.q, "customer_wallets",
		[]string{"merchant_id", "customer_id", "account_number", "account_level", "balance", "status",
			"activation_date", "daily_limit", "monthly_limit", "notes", "created_at", "updated_at"},
		w.MerchantID, w.CustomerID, w.AccountNumber, w.AccountLevel, w.Balance, w.Status,
		w.ActivationDate.UTC(), w.DailyLimit, w.MonthlyLimit, w.Notes, now, now)
	if err != nil {
		return err
	}
	w.ID, w.CreatedAt, w.UpdatedAt = id, now, now
	return nil
}

// GetCustomerWallet returns one customer wallet of the merchant.
func (s *Store) GetCustomerWallet(ctx context.Context, merchantID, id int64) (*models.CustomerWallet, error) {
	var w models.CustomerWallet
	err := get(ctx, s.q, "customer_wallets", &w, customerWalletSelect+" WHERE w.merchant_id = ? AND w.id = ?", merchantID, id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CustomerWalletFor returns the wallet opened for a customer.
func (s *Store) CustomerWalletFor(ctx context.Context, merchantID, customerID int64) (*models.CustomerWallet, error) {
	var w models.CustomerWallet
	err := get(ctx, s.q, "customer_wallets", &w,
		customerWalletSelect+" WHERE w.merchant_id = ? AND w.customer_id = ? ORDER BY w.id LIMIT 1", merchantID, customerID)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListCustomerWallets returns one page of customer wallets matching f and the total count.
func (s *Store) ListCustomerWallets(ctx context.Context, merchantID int64, f Filter) ([]models.CustomerWallet, int64, error) {
	jw := &where{}
	jw.add("w.merchant_id = ?", merchantID).eq("w.status", f.Status).eq("w.account_level", f.Type).
		search(f.Search, "w.account_number", "c.full_name")
	var total int64
	err := get(ctx, s.q, "customer_wallets", &total,
		"SELECT COUNT(*) FROM customer_wallets w LEFT JOIN customers c ON c.id = w.customer_id"+jw.String(), jw.values()...)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	items := make([]models.CustomerWallet, 0)
	query := fmt.Sprintf("%s%s ORDER BY w.created_at DESC, w.id DESC LIMIT %d OFFSET %d", customerWalletSelect, jw.String(), limit, offset)
	if err := selectAll(ctx, s.q, "customer_wallets", &items, query, jw.values()...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateCustomerWallet saves the editable fields of a customer wallet.
func (s *Store) UpdateCustomerWallet(ctx context.Context, w *models.CustomerWallet) error {
	w.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "customer_wallets", map[string]interface{}{
		"account_level": w.AccountLevel,
		"status":        w.Status,
		"daily_limit":   w.DailyLimit,
		"monthly_limit": w.MonthlyLimit,
		"notes":         w.Notes,
		"updated_at":    w.UpdatedAt,
	}, one(w.ID, w.MerchantID))
}

// SetCustomerWalletStatus changes the status of a customer wallet.
func (s *Store) SetCustomerWalletStatus(ctx context.Context, merchantID, id int64, status string) error {
	return update(ctx, s.q, "customer_wallets", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, one(id, merchantID))
}

// LevelSummary groups wallets by account level.
type LevelSummary struct {
	AccountLevel string       `db:"account_level" json:"accountLevel"`
	Count        int64        `db:"count" json:"count"`
	TotalBalance models.Money `db:"total_balance" json:"totalBalance"`
}

// CustomerWalletStats summarises a merchant's customer wallets.
type CustomerWalletStats struct {
	TotalWallets     int64          `json:"totalWallets"`
	ActiveWallets    int64          `json:"activeWallets"`
	SuspendedWallets int64          `json:"suspendedWallets"`
	TotalBalance     models.Money   `json:"totalBalance"`
	WalletsByLevel   []LevelSummary `json:"walletsByLevel"`
}

// CustomerWalletStats summarises wallet counts and active balances, with
// a breakdown by account level.
func (s *Store) CustomerWalletStats(ctx context.Context, merchantID int64) (*CustomerWalletStats, error) {
	var row struct {
		Total   int64        `db:"total"`
		Active  int64        `db:"active"`
		Balance models.Money `db:"balance"`
	}
	err := get(ctx, s.q, "customer_wallets", &row, `SELECT
		COUNT(*) AS total,
		COUNT(CASE WHEN status = 'Active' THEN 1 END) AS active,
		CAST(COALESCE(SUM(CASE WHEN status = 'Active' THEN balance ELSE 0 END), 0) AS BIGINT) AS balance
		FROM customer_wallets WHERE merchant_id = ?`, merchantID)
	if err != nil {
		return nil, err
	}
	levels := make([]LevelSummary, 0)
	err = selectAll(ctx, s.q, "customer_wallets", &levels, `SELECT account_level, COUNT(*) AS count,
		CAST(COALESCE(SUM(balance), 0) AS BIGINT) AS total_balance
		FROM customer_wallets WHERE merchant_id = ? GROUP BY account_level ORDER BY account_level`, merchantID)
	if err != nil {
		return nil, err
	}
	return &CustomerWalletStats{
		TotalWallets:     row.Total,
		ActiveWallets:    row.Active,
		SuspendedWallets: row.Total - row.Active,
		TotalBalance:     row.Balance,
		WalletsByLevel:   levels,
	}, nil
}

// Transfer moves money between the merchant wallet and a customer wallet.
// Type is from the customer's side: credit pays the customer out of the
// merchant wallet, debit moves customer funds into it.
type Transfer struct {
	MerchantID    int64
	CustomerID    int64
	Amount        models.Money
	Type          string
	Description   string
	PaymentMethod string
	ProcessedBy   *int64
}

// TransferResult is the state after a transfer commits.
type TransferResult struct {
	Transaction *models.WalletTransaction `json:"transaction"`
	Wallet      *models.CustomerWallet    `json:"customerWallet"`
}

// transferAttempts bounds retries of a transfer that lost a write conflict.
const transferAttempts = 5

// lockMerchantWallet serializes balance-checked writes for one merchant.
// Postgres blocks on the row lock until the holder commits. DuckDB fails
// the later writer with database.ErrTxConflict.
func (s *Store) lockMerchantWallet(ctx context.Context, merchantID int64) error {
	return exec(ctx, s.q, "lock", "merchants",
		"UPDATE merchants SET updated_at = updated_at WHERE id = ?", merchantID)
}

// TransferToCustomer records the merchant-side wallet transaction and
// adjusts the customer wallet in one database transaction. Transfers for
// the same merchant are serialized so the balance check holds under
// concurrency; a transfer that loses a write conflict is retried.
func (s *Store) TransferToCustomer(ctx context.Context, t Transfer) (*TransferResult, error) {
	if t.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var err error
	for attempt := 1; attempt <= transferAttempts; attempt++ {
		var res *TransferResult
		res, err = s.transfer(ctx, t)
		if !errors.Is(err, database.ErrTxConflict) || s.tx {
			return res, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	return nil, err
}

func (s *Store) transfer(ctx context.Context, t Transfer) (*TransferResult, error) {
	customerSide := t.Type
	if customerSide != models.WalletDebit {
		customerSide = models.WalletCredit
	}
	merchantSide := models.WalletDebit
	if customerSide == models.WalletDebit {
		merchantSide = models.WalletCredit
	}

	var out TransferResult
	err := s.InTx(ctx, func(tx *Store) error {
		if err := tx.lockMerchantWallet(ctx, t.MerchantID); err != nil {
			return err
		}
		wallet, err := tx.CustomerWalletFor(ctx, t.MerchantID, t.CustomerID)
		if err != nil {
			return err
		}
		if wallet.Status != models.CustomerWalletActive {
			return ErrWalletInactive
		}
		bal, err := tx.WalletBalance(ctx, t.MerchantID, "")
		if err != nil {
			return err
		}
		if customerSide == models.WalletCredit && bal.AvailableBalance < t.Amount {
			return ErrInsufficientFunds
		}
		if customerSide == models.WalletDebit && wallet.Balance < t.Amount {
			return ErrInsufficientFunds
		}

		after := bal.Balance - t.Amount
		newCustomerBalance := wallet.Balance + t.Amount
		if customerSide == models.WalletDebit {
			after = bal.Balance + t.Amount
			newCustomerBalance = wallet.Balance - t.Amount
		}
		desc := t.Description
		if desc == "" {
			desc = fmt.Sprintf("Transfer to %s", wallet.CustomerName)
			if customerSide == models.WalletDebit {
				desc = fmt.Sprintf("Transfer from %s", wallet.CustomerName)
			}
		}
		now := tx.timestamp()
		txn := &models.WalletTransaction{
			MerchantID:      t.MerchantID,
			Type:            merchantSide,
			TransactionType: merchantSide,
			Amount:          t.Amount,
			Description:     desc,
			Reference:       fmt.Sprintf("TRF_%d_%d", now.UnixMilli(), t.CustomerID),
			Status:          models.PaymentCompleted,
			BalanceBefore:   bal.Balance,
			BalanceAfter:    after,
			Category:        "transfer",
			RelatedID:       &wallet.ID,
			RelatedType:     "customer_wallet",
			PaymentMethod:   t.PaymentMethod,
			ProcessedBy:     t.ProcessedBy,
		}
		if err := tx.CreateWalletTransaction(ctx, txn); err != nil {
			return err
		}
		if err := update(ctx, tx.q, "customer_wallets", map[string]interface{}{
			"balance":               newCustomerBalance,
			"last_transaction_date": now,
			"updated_at":            now,
		}, one(wallet.ID, t.MerchantID)); err != nil {
			return err
		}
		wallet.Balance, wallet.LastTransactionDate, wallet.UpdatedAt = newCustomerBalance, timePtr(now), now
		out = TransferResult{Transaction: txn, Wallet: wallet}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func timePtr(t time.Time) *time.Time { return &t }
