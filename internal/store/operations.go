// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/alphaweb/internal/finance"
	"github.com/tomtom215/alphaweb/internal/models"
)

// Packages

// CreatePackage inserts a package and fills in its id and timestamps.
func (s *Store) CreatePackage(ctx context.Context, p *models.Package) error {
	finance.ApplyPackageDefaults(p)
	now := s.timestamp()
	id, err := insert(ctx, s.q, "packages",
		[]string{"merchant_id", "name", "type", "category", "amount", "seed_amount", "seed_type", "period",
			"collection_days", "duration", "benefits", "description", "status", "max_customers",
			"current_customers", "interest_rate", "minimum_savings", "savings_frequency", "extra_charges",
			"default_penalty", "grace_period", "created_at", "updated_at"},
		p.MerchantID, p.Name, p.Type, p.Category, p.Amount, p.SeedAmount, p.SeedType, p.Period,
		p.CollectionDays, p.Duration, p.Benefits, p.Description, p.Status, p.MaxCustomers,
		p.CurrentCustomers, p.InterestRate, p.MinimumSavings, p.SavingsFrequency, p.ExtraCharges,
		p.DefaultPenalty, p.GracePeriod, now, now)
	if err != nil {
		return err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

// GetPackage returns one package of the merchant.
func (s *Store) GetPackage(ctx context.Context, merchantID, id int64) (*models.Package, error) {
	return byID[models.Package](ctx, s.q, "packages", one(id, merchantID))
}

// ListPackages returns one page of packages matching f and the total count.
func (s *Store) ListPackages(ctx context.Context, merchantID int64, f Filter) ([]models.Package, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).eq("category", f.Type).search(f.Search, "name", "description")
	return page[models.Package](ctx, s.q, "packages", w, "created_at DESC, id DESC", f)
}

// ActivePackages returns every active package, newest first.
func (s *Store) ActivePackages(ctx context.Context, merchantID int64) ([]models.Package, error) {
	items := make([]models.Package, 0)
	err := selectAll(ctx, s.q, "packages", &items,
		"SELECT * FROM packages WHERE merchant_id = ? AND status = 'Active' ORDER BY created_at DESC, id DESC", merchantID)
	return items, err
}

// UpdatePackage saves the editable fields of a package.
func (s *Store) UpdatePackage(ctx context.Context, p *models.Package) error {
	p.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "packages", map[string]interface{}{
		"name":              p.Name,
		"type":              p.Type,
		"category":          p.Category,
		"amount":            p.Amount,
		"seed_amount":       p.SeedAmount,
		"seed_type":         p.SeedType,
		"period":            p.Period,
		"collection_days":   p.CollectionDays,
		"duration":          p.Duration,
		"benefits":          p.Benefits,
		"description":       p.Description,
		"status":            p.Status,
		"max_customers":     p.MaxCustomers,
		"interest_rate":     p.InterestRate,
		"minimum_savings":   p.MinimumSavings,
		"savings_frequency": p.SavingsFrequency,
		"extra_charges":     p.ExtraCharges,
		"default_penalty":   p.DefaultPenalty,
		"grace_period":      p.GracePeriod,
		"updated_at":        p.UpdatedAt,
	}, one(p.ID, p.MerchantID))
}

// DeletePackage removes a package of the merchant.
func (s *Store) DeletePackage(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "packages", one(id, merchantID))
}

// Collections

// CreateCollection stores c with its priority derived from the due date.
func (s *Store) CreateCollection(ctx context.Context, c *models.Collection) error {
	now := s.timestamp()
	if c.Status == "" {
		c.Status = models.CollectionPending
	}
	if c.Cycle == 0 {
		c.Cycle = 31
	}
	if c.CycleCounter == 0 {
		c.CycleCounter = 1
	}
	if c.Priority == "" {
		c.Priority, c.Status = finance.CollectionPriority(c.DueDate, now, c.Status)
	}
	id, err := insert(ctx, s.q, "collections",
		[]string{"merchant_id", "customer_id", "customer_name", "package_id", "package_name", "package_amount",
			"amount", "amount_collected", "due_date", "type", "status", "priority", "description",
			"collection_notes", "reminder_sent", "cycle", "cycle_counter", "is_first_collection",
			"created_at", "updated_at"},
		c.MerchantID, c.CustomerID, c.CustomerName, c.PackageID, c.PackageName, c.PackageAmount,
		c.Amount, c.AmountCollected, c.DueDate.UTC(), c.Type, c.Status, c.Priority, c.Description,
		c.CollectionNotes, c.ReminderSent, c.Cycle, c.CycleCounter, c.IsFirstCollection,
		now, now)
	if err != nil {
		return err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

// GetCollection returns one collection of the merchant.
func (s *Store) GetCollection(ctx context.Context, merchantID, id int64) (*models.Collection, error) {
	return byID[models.Collection](ctx, s.q, "collections", one(id, merchantID))
}

// ListCollections returns one page of collections matching f and the total count.
func (s *Store) ListCollections(ctx context.Context, merchantID int64, f Filter) ([]models.Collection, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).eq("type", f.Type).search(f.Search, "customer_name", "package_name", "description")
	return page[models.Collection](ctx, s.q, "collections", w, "due_date ASC, id ASC", f)
}

// OverdueCollections returns uncollected collections already past due,
// oldest due date first.
func (s *Store) OverdueCollections(ctx context.Context, merchantID int64) ([]models.Collection, error) {
	items := make([]models.Collection, 0)
	err := selectAll(ctx, s.q, "collections", &items,
		"SELECT * FROM collections WHERE merchant_id = ? AND status IN (?, ?) AND due_date < ? ORDER BY due_date ASC, id ASC",
		merchantID, models.CollectionPending, models.CollectionOverdue, s.timestamp())
	return items, err
}

// UpdateCollection saves the editable fields of a collection.
func (s *Store) UpdateCollection(ctx context.Context, c *models.Collection) error {
	c.UpdatedAt = s.timestamp()
	c.Priority, c.Status = finance.CollectionPriority(c.DueDate, c.UpdatedAt, c.Status)
	return update(ctx, s.q, "collections", map[string]interface{}{
		"customer_id":         c.CustomerID,
		"customer_name":       c.CustomerName,
		"package_id":          c.PackageID,
		"package_name":        c.PackageName,
		"package_amount":      c.PackageAmount,
		"amount":              c.Amount,
		"due_date":            c.DueDate.UTC(),
		"type":                c.Type,
		"status":              c.Status,
		"priority":            c.Priority,
		"description":         c.Description,
		"collection_notes":    c.CollectionNotes,
		"reminder_sent":       c.ReminderSent,
		"cycle":               c.Cycle,
		"cycle_counter":       c.CycleCounter,
		"is_first_collection": c.IsFirstCollection,
		"updated_at":          c.UpdatedAt,
	}, one(c.ID, c.MerchantID))
}

// MarkCollected records a collection as collected. A zero amount means the
// full amount due.
func (s *Store) MarkCollected(ctx context.Context, merchantID, id int64, amount models.Money, notes string) (*models.Collection, error) {
	c, err := s.GetCollection(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		amount = c.Amount
	}
	now := s.timestamp()
	set := map[string]interface{}{
		"status":           models.CollectionCollected,
		"amount_collected": amount,
		"collected_date":   now,
		"updated_at":       now,
	}
	if notes != "" {
		set["collection_notes"] = notes
		c.CollectionNotes = notes
	}
	if err := update(ctx, s.q, "collections", set, one(id, merchantID)); err != nil {
		return nil, err
	}
	c.Status, c.AmountCollected, c.CollectedDate, c.UpdatedAt = models.CollectionCollected, amount, timePtr(now), now
	return c, nil
}

// DeleteCollection removes a collection of the merchant.
func (s *Store) DeleteCollection(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "collections", one(id, merchantID))
}

// SweepResult reports what a collection sweep changed.
type SweepResult struct {
	Scanned       int
	Reprioritised int
	MarkedOverdue int
}

// SweepCollections recomputes priorities for every open collection across
// all tenants and marks past-due pending ones Overdue.
func (s *Store) SweepCollections(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	var open []models.Collection
	err := selectAll(ctx, s.q, "collections", &open,
		"SELECT * FROM collections WHERE status IN (?, ?, ?) ORDER BY id",
		models.CollectionPending, models.CollectionPartial, models.CollectionOverdue)
	if err != nil {
		return res, err
	}
	now := s.timestamp()
	res.Scanned = len(open)
	for _, c := range open {
		priority, status := finance.CollectionPriority(c.DueDate, now, c.Status)
		if priority == c.Priority && status == c.Status {
			continue
		}
		err := update(ctx, s.q, "collections", map[string]interface{}{
			"priority": priority, "status": status, "updated_at": now,
		}, one(c.ID, c.MerchantID))
		if err != nil {
			return res, fmt.Errorf("sweep collection %d: %w", c.ID, err)
		}
		res.Reprioritised++
		if status != c.Status {
			res.MarkedOverdue++
		}
	}
	return res, nil
}

// Remittances

// CreateRemittance inserts a remittance and fills in its id and timestamps.
func (s *Store) CreateRemittance(ctx context.Context, r *models.Remittance) error {
	now := s.timestamp()
	if r.Status == "" {
		r.Status = models.RemittancePending
	}
	id, err := insert(ctx, s.q, "remittances",
		[]string{"merchant_id", "collection_id", "customer_id", "customer_name", "account_number", "amount",
			"agent_id", "agent_name", "status", "notes", "created_at", "updated_at"},
		r.MerchantID, r.CollectionID, r.CustomerID, r.CustomerName, r.AccountNumber, r.Amount,
		r.AgentID, r.AgentName, r.Status, r.Notes, now, now)
	if err != nil {
		return err
	}
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	return nil
}

// GetRemittance returns one remittance of the merchant.
func (s *Store) GetRemittance(ctx context.Context, merchantID, id int64) (*models.Remittance, error) {
	return byID[models.Remittance](ctx, s.q, "remittances", one(id, merchantID))
}

// ListRemittances returns one page of remittances matching f and the total count.
func (s *Store) ListRemittances(ctx context.Context, merchantID int64, f Filter) ([]models.Remittance, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).search(f.Search, "customer_name", "account_number", "agent_name")
	return page[models.Remittance](ctx, s.q, "remittances", w, "created_at DESC, id DESC", f)
}

// UpdateRemittance saves the editable fields of a remittance.
func (s *Store) UpdateRemittance(ctx context.Context, r *models.Remittance) error {
	r.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "remittances", map[string]interface{}{
		"amount":     r.Amount,
		"agent_id":   r.AgentID,
		"agent_name": r.AgentName,
		"notes":      r.Notes,
		"updated_at": r.UpdatedAt,
	}, one(r.ID, r.MerchantID))
}

// ApproveRemittance marks a remittance Approved, stamps approved_at and
// returns the stored row.
func (s *Store) ApproveRemittance(ctx context.Context, merchantID, id int64) (*models.Remittance, error) {
	now := s.timestamp()
	err := update(ctx, s.q, "remittances", map[string]interface{}{
		"status": models.RemittanceApproved, "approved_at": now, "updated_at": now,
	}, one(id, merchantID))
	if err != nil {
		return nil, err
	}
	return s.GetRemittance(ctx, merchantID, id)
}

// DeleteRemittance removes a remittance of the merchant.
func (s *Store) DeleteRemittance(ctx context.Context, merchantID, id int64) error {
	return remove(ctx, s.q, "remittances", one(id, merchantID))
}

// Charges

// ChargeSummary is an active charge with the number of assigned customers.
type ChargeSummary struct {
	models.Charge
	ActiveCustomers int64 `db:"active_customers" json:"activeCustomers"`
}

// CreateCharge inserts a charge and fills in its id and timestamps.
func (s *Store) CreateCharge(ctx context.Context, c *models.Charge) error {
	now := s.timestamp()
	c.IsActive = true
	id, err := insert(ctx, s.q, "charges",
		[]string{"merchant_id", "charge_name", "type", "amount", "is_active", "created_at", "updated_at"},
		c.MerchantID, c.ChargeName, c.Type, c.Amount, c.IsActive, now, now)
	if err != nil {
		return err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

// GetCharge returns one charge of the merchant.
func (s *Store) GetCharge(ctx context.Context, merchantID, id int64) (*models.Charge, error) {
	return byID[models.Charge](ctx, s.q, "charges", one(id, merchantID))
}

// ListCharges returns active charges, most recently updated first.
func (s *Store) ListCharges(ctx context.Context, merchantID int64) ([]ChargeSummary, error) {
	items := make([]ChargeSummary, 0)
	err := selectAll(ctx, s.q, "charges", &items, `SELECT c.*,
		(SELECT COUNT(*) FROM charge_assignments a WHERE a.charge_id = c.id) AS active_customers
		FROM charges c WHERE c.merchant_id = ? AND c.is_active = TRUE
		ORDER BY c.updated_at DESC, c.id DESC`, merchantID)
	return items, err
}

// UpdateCharge saves the editable fields of a charge.
func (s *Store) UpdateCharge(ctx context.Context, c *models.Charge) error {
	c.UpdatedAt = s.timestamp()
	return update(ctx, s.q, "charges", map[string]interface{}{
		"charge_name": c.ChargeName,
		"type":        c.Type,
		"amount":      c.Amount,
		"is_active":   c.IsActive,
		"updated_at":  c.UpdatedAt,
	}, one(c.ID, c.MerchantID))
}

// DeleteCharge deactivates the charge; assignments keep their history.
func (s *Store) DeleteCharge(ctx context.Context, merchantID, id int64) error {
	return update(ctx, s.q, "charges", map[string]interface{}{
		"is_active": false, "updated_at": s.timestamp(),
	}, one(id, merchantID))
}

// AssignCharge applies a charge to a customer. Status defaults to Pending
// and the applied date to now.
func (s *Store) AssignCharge(ctx context.Context, a *models.ChargeAssignment) error {
	now := s.timestamp()
	if a.Status == "" {
		a.Status = "Pending"
	}
	if a.DateApplied.IsZero() {
		a.DateApplied = now
	}
	id, err := insert(ctx, s.q, "charge_assignments",
		[]string{"merchant_id", "charge_id", "customer_id", "amount", "due_date", "status", "date_applied",
			"created_at", "updated_at"},
		a.MerchantID, a.ChargeID, a.CustomerID, a.Amount, a.DueDate.UTC(), a.Status, a.DateApplied.UTC(),
		now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

// ChargeHistory lists assignments with charge and customer names, latest
// applied first.
func (s *Store) ChargeHistory(ctx context.Context, merchantID int64, f Filter) ([]models.ChargeAssignment, int64, error) {
	w := &where{}
	w.add("a.merchant_id = ?", merchantID).eq("a.status", f.Status).search(f.Search, "c.charge_name", "cu.full_name")
	from := ` FROM charge_assignments a
		LEFT JOIN charges c ON c.id = a.charge_id
		LEFT JOIN customers cu ON cu.id = a.customer_id`

	var total int64
	if err := get(ctx, s.q, "charge_assignments", &total, "SELECT COUNT(*)"+from+w.String(), w.values()...); err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	items := make([]models.ChargeAssignment, 0)
	query := fmt.Sprintf(`SELECT a.*, COALESCE(c.charge_name, '') AS charge_name, COALESCE(cu.full_name, '') AS customer_name%s%s
		ORDER BY a.date_applied DESC, a.id DESC LIMIT %d OFFSET %d`, from, w.String(), limit, offset)
	if err := selectAll(ctx, s.q, "charge_assignments", &items, query, w.values()...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SetAssignmentStatus updates an assignment; Paid stamps the payment date.
func (s *Store) SetAssignmentStatus(ctx context.Context, merchantID, id int64, status string) error {
	now := s.timestamp()
	set := map[string]interface{}{"status": status, "updated_at": now}
	if status == "Paid" {
		set["date_paid"] = now
	}
	return update(ctx, s.q, "charge_assignments", set, one(id, merchantID))
}

// Platform transactions

// CreateTransaction records a platform transaction awaiting admin review.
// Empty currency, status and reference get defaults.
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	now := s.timestamp()
	if t.Currency == "" {
		t.Currency = "NGN"
	}
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.Reference == "" {
		t.Reference = "TXN_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	}
	id, err := insert(ctx, s.q, "transactions",
		[]string{"merchant_id", "amount", "currency", "type", "status", "reference", "description", "metadata",
			"created_at", "updated_at"},
		t.MerchantID, t.Amount, t.Currency, t.Type, t.Status, t.Reference, t.Description, t.Metadata, now, now)
	if err != nil {
		return err
	}
	t.ID, t.CreatedAt, t.UpdatedAt = id, now, now
	return nil
}

// GetTransaction returns one platform transaction of a merchant.
func (s *Store) GetTransaction(ctx context.Context, merchantID, id int64) (*models.Transaction, error) {
	return byID[models.Transaction](ctx, s.q, "transactions", one(id, merchantID))
}

// ListMerchantTransactions returns a merchant's platform transactions,
// latest first.
func (s *Store) ListMerchantTransactions(ctx context.Context, merchantID int64, f Filter) ([]models.Transaction, int64, error) {
	w := scoped(merchantID).eq("status", f.Status).eq("type", f.Type).search(f.Search, "reference", "description")
	return page[models.Transaction](ctx, s.q, "transactions", w, "created_at DESC, id DESC", f)
}

// ListTransactions returns platform transactions with the merchant summary,
// latest first.
func (s *Store) ListTransactions(ctx context.Context, f Filter) ([]models.TransactionWithMerchant, int64, error) {
	w := &where{}
	w.eq("t.status", f.Status).eq("t.type", f.Type).search(f.Search, "t.reference", "t.description", "m.business_name")
	from := " FROM transactions t LEFT JOIN merchants m ON m.id = t.merchant_id"

	var total int64
	if err := get(ctx, s.q, "transactions", &total, "SELECT COUNT(*)"+from+w.String(), w.values()...); err != nil {
		return nil, 0, err
	}
	limit, offset := f.window()
	items := make([]models.TransactionWithMerchant, 0)
	query := fmt.Sprintf(`SELECT t.*, COALESCE(m.business_name, '') AS business_name, COALESCE(m.email, '') AS merchant_email%s%s
		ORDER BY t.created_at DESC, t.id DESC LIMIT %d OFFSET %d`, from, w.String(), limit, offset)
	if err := selectAll(ctx, s.q, "transactions", &items, query, w.values()...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SetTransactionStatus is used by the approve, reject and refund actions.
func (s *Store) SetTransactionStatus(ctx context.Context, id int64, status string) (*models.Transaction, error) {
	w := (&where{}).add("id = ?", id)
	if err := update(ctx, s.q, "transactions", map[string]interface{}{
		"status": status, "updated_at": s.timestamp(),
	}, w); err != nil {
		return nil, err
	}
	return byID[models.Transaction](ctx, s.q, "transactions", w)
}

// MergedTransactions combines platform transactions, wallet transactions
// and loan repayments for one merchant, latest first, capped at limit.
func (s *Store) MergedTransactions(ctx context.Context, merchantID int64, limit int) ([]models.MergedTransaction, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	tail := fmt.Sprintf(" WHERE merchant_id = ? ORDER BY created_at DESC, id DESC LIMIT %d", limit)

	var platform []models.Transaction
	if err := selectAll(ctx, s.q, "transactions", &platform, "SELECT * FROM transactions"+tail, merchantID); err != nil {
		return nil, err
	}
	var wallet []models.WalletTransaction
	if err := selectAll(ctx, s.q, "wallet_transactions", &wallet, "SELECT * FROM wallet_transactions"+tail, merchantID); err != nil {
		return nil, err
	}
	var repayments []models.Repayment
	if err := selectAll(ctx, s.q, "repayments", &repayments, "SELECT * FROM repayments"+tail, merchantID); err != nil {
		return nil, err
	}

	out := make([]models.MergedTransaction, 0, len(platform)+len(wallet)+len(repayments))
	for _, t := range platform {
		out = append(out, merged("platform", t.ID, t.Type, t.Amount, t.Status, t.Reference, t.Description, t.CreatedAt))
	}
	for _, t := range wallet {
		out = append(out, merged("wallet", t.ID, t.Type, t.Amount, t.Status, t.Reference, t.Description, t.CreatedAt))
	}
	for _, r := range repayments {
		out = append(out, merged("repayment", r.ID, "repayment", r.Amount, r.Status, r.TransactionID, r.Notes, r.PaidAt))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func merged(source string, id int64, typ string, amount models.Money, status, ref, desc string, at time.Time) models.MergedTransaction {
	return models.MergedTransaction{
		ID:          source + "-" + strconv.FormatInt(id, 10),
		Source:      source,
		Type:        typ,
		Amount:      amount,
		Status:      status,
		Reference:   ref,
		Description: desc,
		Date:        at,
	}
}
