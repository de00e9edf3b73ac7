// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/validation"
)

// Charges

type ChargeRequest struct {
	ChargeName string       `json:"chargeName" validate:"required,min=2,max=100"`
	Type       string       `json:"type" validate:"required,charge_type"`
	Amount     models.Money `json:"amount" validate:"gt=0"`
}

type AssignChargeRequest struct {
	ChargeID   int64         `json:"chargeId" validate:"required,gt=0"`
	CustomerID int64         `json:"customerId" validate:"required,gt=0"`
	Amount     *models.Money `json:"amount" validate:"omitempty,gt=0"`
	DueDate    string        `json:"dueDate" validate:"required"`
}

// @Summary List active charges
// @Tags Charges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]store.ChargeSummary}
// @Router /merchant/charges [get]
func (h *Handler) ListCharges(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListCharges(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, items)
}

// @Summary Create a charge
// @Tags Charges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChargeRequest true "Charge"
// @Success 201 {object} APIResponse{data=models.Charge}
// @Router /merchant/charges [post]
func (h *Handler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	c := &models.Charge{MerchantID: tenant(r), ChargeName: req.ChargeName, Type: req.Type, Amount: req.Amount}
	if err := h.store.CreateCharge(r.Context(), c); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created charge", fmt.Sprintf("Added %s charge %s", c.Type, c.ChargeName))
	NewResponseWriter(w, r).Created("Charge created successfully", c)
}

func (h *Handler) chargeFromPath(w http.ResponseWriter, r *http.Request) (*models.Charge, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	c, err := h.store.GetCharge(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "charge not found")
		return nil, false
	}
	return c, true
}

// @Summary Get a charge
// @Tags Charges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Charge ID"
// @Success 200 {object} APIResponse{data=models.Charge}
// @Router /merchant/charges/{id} [get]
func (h *Handler) GetCharge(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.chargeFromPath(w, r); ok {
		WriteSuccess(w, r, c)
	}
}

// @Summary Update a charge
// @Tags Charges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Charge ID"
// @Param body body ChargeRequest true "Charge"
// @Success 200 {object} APIResponse{data=models.Charge}
// @Router /merchant/charges/{id} [put]
func (h *Handler) UpdateCharge(w http.ResponseWriter, r *http.Request) {
	c, ok := h.chargeFromPath(w, r)
	if !ok {
		return
	}
	var req ChargeRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	c.ChargeName, c.Type, c.Amount = req.ChargeName, req.Type, req.Amount
	if err := h.store.UpdateCharge(r.Context(), c); err != nil {
		respondErr(w, r, err, "charge not found")
		return
	}
	h.activity(r, "Updated charge", "Updated charge "+c.ChargeName)
	NewResponseWriter(w, r).Message("Charge updated successfully", c)
}

// DeleteCharge deactivates a charge. Existing assignments are kept.
//
// @Summary Delete a charge
// @Tags Charges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Charge ID"
// @Success 200 {object} APIResponse
// @Router /merchant/charges/{id} [delete]
func (h *Handler) DeleteCharge(w http.ResponseWriter, r *http.Request) {
	c, ok := h.chargeFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCharge(r.Context(), c.MerchantID, c.ID); err != nil {
		respondErr(w, r, err, "charge not found")
		return
	}
	h.activity(r, "Deleted charge", "Deleted charge "+c.ChargeName)
	NewResponseWriter(w, r).Message("Charge deleted successfully", nil)
}

// AssignCharge applies a charge to a customer. The charge amount is used
// unless the request overrides it.
//
// @Summary Assign a charge to a customer
// @Tags Charges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AssignChargeRequest true "Assignment"
// @Success 201 {object} APIResponse{data=models.ChargeAssignment}
// @Router /merchant/charges/assign [post]
func (h *Handler) AssignCharge(w http.ResponseWriter, r *http.Request) {
	var req AssignChargeRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	charge, err := h.store.GetCharge(r.Context(), merchantID, req.ChargeID)
	if err != nil {
		respondErr(w, r, err, "charge not found")
		return
	}
	if !charge.IsActive {
		respondErr(w, r, badRequest("charge is inactive"), "")
		return
	}
	customer, err := h.store.GetCustomer(r.Context(), merchantID, req.CustomerID)
	if err != nil {
		respondErr(w, r, err, "customer not found")
		return
	}
	a := &models.ChargeAssignment{
		MerchantID:   merchantID,
		ChargeID:     charge.ID,
		ChargeName:   charge.ChargeName,
		CustomerID:   customer.ID,
		CustomerName: customer.FullName,
		Amount:       charge.Amount,
		DueDate:      *due,
	}
	if req.Amount != nil {
		a.Amount = *req.Amount
	}
	if err := h.store.AssignCharge(r.Context(), a); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Assigned charge", fmt.Sprintf("Assigned %s to %s", charge.ChargeName, customer.FullName))
	NewResponseWriter(w, r).Created("Charge assigned successfully", a)
}

// @Summary Charge assignment history
// @Tags Charges
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Paid or Overdue"
// @Param search query string false "Charge or customer name"
// @Success 200 {object} APIResponse{data=[]models.ChargeAssignment}
// @Router /merchant/charges/history [get]
func (h *Handler) ChargeHistory(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ChargeHistory(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Set charge assignment status
// @Tags Charges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param body body StatusRequest true "Pending, Paid or Overdue"
// @Success 200 {object} APIResponse
// @Router /merchant/charges/assignments/{id}/status [patch]
func (h *Handler) SetChargeAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidChargeAssignmentStatus(req.Status) {
		respondErr(w, r, badRequest("status must be Pending, Paid or Overdue"), "")
		return
	}
	if err := h.store.SetAssignmentStatus(r.Context(), tenant(r), id, req.Status); err != nil {
		respondErr(w, r, err, "charge assignment not found")
		return
	}
	h.activity(r, "Updated charge status", fmt.Sprintf("Set charge assignment %d to %s", id, req.Status))
	NewResponseWriter(w, r).Message("Charge status updated successfully", map[string]interface{}{"id": id, "status": req.Status})
}

// Packages

type PackageRequest struct {
	Name             string       `json:"name" validate:"required,min=2,max=200"`
	Type             string       `json:"type" validate:"omitempty,package_type"`
	Category         string       `json:"packageCategory" validate:"omitempty,package_category"`
	Amount           models.Money `json:"amount" validate:"gt=0"`
	SeedAmount       models.Money `json:"seedAmount" validate:"gte=0"`
	SeedType         string       `json:"seedType" validate:"omitempty,max=50"`
	Period           int          `json:"period" validate:"gte=0"`
	CollectionDays   string       `json:"collectionDays" validate:"omitempty,collection_days"`
	Duration         int          `json:"duration" validate:"gte=0"`
	Benefits         []string     `json:"benefits" validate:"omitempty,dive,min=1,max=200"`
	Description      string       `json:"description" validate:"omitempty,max=2000"`
	Status           string       `json:"status" validate:"omitempty,oneof=Active Inactive"`
	MaxCustomers     *int         `json:"maxCustomers" validate:"omitempty,gt=0"`
	InterestRate     float64      `json:"interestRate" validate:"gte=0,lte=100"`
	MinimumSavings   models.Money `json:"minimumSavings" validate:"gte=0"`
	SavingsFrequency string       `json:"savingsFrequency" validate:"omitempty,max=50"`
	ExtraCharges     models.Money `json:"extraCharges" validate:"gte=0"`
	DefaultPenalty   models.Money `json:"defaultPenalty" validate:"gte=0"`
	GracePeriod      int          `json:"gracePeriod" validate:"gte=0"`
}

func (req PackageRequest) apply(p *models.Package) {
	p.Name = req.Name
	p.Type = req.Type
	p.Category = req.Category
	p.Amount = req.Amount
	p.SeedAmount = req.SeedAmount
	p.SeedType = req.SeedType
	p.Period = req.Period
	p.CollectionDays = req.CollectionDays
	p.Duration = req.Duration
	p.Benefits = models.StringList(req.Benefits)
	p.Description = req.Description
	p.Status = req.Status
	p.MaxCustomers = req.MaxCustomers
	p.InterestRate = req.InterestRate
	p.MinimumSavings = req.MinimumSavings
	p.SavingsFrequency = req.SavingsFrequency
	p.ExtraCharges = req.ExtraCharges
	p.DefaultPenalty = req.DefaultPenalty
	p.GracePeriod = req.GracePeriod
}

// @Summary List packages
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param status query string false "Active or Inactive"
// @Param type query string false "Package category"
// @Success 200 {object} APIResponse{data=[]models.Package}
// @Router /merchant/packages [get]
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListPackages(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Active packages
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Package}
// @Router /merchant/packages/active [get]
func (h *Handler) ActivePackages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ActivePackages(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, items)
}

// CreatePackage stores a package. Empty benefits, interest rate and minimum
// savings are derived from the amount.
//
// @Summary Create a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PackageRequest true "Package"
// @Success 201 {object} APIResponse{data=models.Package}
// @Router /merchant/packages [post]
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req PackageRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	p := &models.Package{MerchantID: tenant(r)}
	req.apply(p)
	if err := h.store.CreatePackage(r.Context(), p); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created package", "Added package "+p.Name)
	NewResponseWriter(w, r).Created("Package created successfully", p)
}

func (h *Handler) packageFromPath(w http.ResponseWriter, r *http.Request) (*models.Package, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	p, err := h.store.GetPackage(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "package not found")
		return nil, false
	}
	return p, true
}

// @Summary Get a package
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} APIResponse{data=models.Package}
// @Router /merchant/packages/{id} [get]
func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.packageFromPath(w, r); ok {
		WriteSuccess(w, r, p)
	}
}

// @Summary Update a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Param body body PackageRequest true "Package"
// @Success 200 {object} APIResponse{data=models.Package}
// @Router /merchant/packages/{id} [put]
func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.packageFromPath(w, r)
	if !ok {
		return
	}
	var req PackageRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	status := p.Status
	req.apply(p)
	if p.Status == "" {
		p.Status = status
	}
	if err := h.store.UpdatePackage(r.Context(), p); err != nil {
		respondErr(w, r, err, "package not found")
		return
	}
	h.activity(r, "Updated package", "Updated package "+p.Name)
	NewResponseWriter(w, r).Message("Package updated successfully", p)
}

// @Summary Delete a package
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} APIResponse
// @Router /merchant/packages/{id} [delete]
func (h *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.packageFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeletePackage(r.Context(), p.MerchantID, p.ID); err != nil {
		respondErr(w, r, err, "package not found")
		return
	}
	h.activity(r, "Deleted package", "Deleted package "+p.Name)
	NewResponseWriter(w, r).Message("Package deleted successfully", nil)
}

// Collections

type CollectionRequest struct {
	CustomerID        int64        `json:"customerId" validate:"required,gt=0"`
	PackageID         *int64       `json:"packageId" validate:"omitempty,gt=0"`
	Amount            models.Money `json:"amount" validate:"gt=0"`
	DueDate           string       `json:"dueDate" validate:"required"`
	Type              string       `json:"type" validate:"required"`
	Description       string       `json:"description" validate:"omitempty,max=1000"`
	CollectionNotes   string       `json:"collectionNotes" validate:"omitempty,max=1000"`
	Cycle             int          `json:"cycle" validate:"gte=0"`
	CycleCounter      int          `json:"cycleCounter" validate:"gte=0"`
	IsFirstCollection bool         `json:"isFirstCollection"`
}

type UpdateCollectionRequest struct {
	CollectionRequest
	Status string `json:"status" validate:"omitempty"`
}

type BulkCollectionRequest struct {
	Collections []CollectionRequest `json:"collections" validate:"required,min=1,max=500"`
}

// BulkResult is the outcome for one item of a bulk request, by position.
type BulkResult struct {
	Index      int                `json:"index"`
	Success    bool               `json:"success"`
	Error      string             `json:"error,omitempty"`
	Collection *models.Collection `json:"collection,omitempty"`
}

type CollectRequest struct {
	Amount models.Money `json:"amount" validate:"gte=0"`
	Notes  string       `json:"notes" validate:"omitempty,max=1000"`
}

// buildCollection resolves the customer and package for req and returns an
// unsaved collection. Errors are safe to show to the caller.
func (h *Handler) buildCollection(r *http.Request, merchantID int64, req CollectionRequest) (*models.Collection, error) {
	if !models.ValidCollectionType(req.Type) {
		return nil, badRequest("invalid collection type: " + req.Type)
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}
	customer, err := h.store.GetCustomer(r.Context(), merchantID, req.CustomerID)
	if err != nil {
		return nil, notFoundIf(err, "customer not found")
	}
	c := &models.Collection{
		MerchantID:        merchantID,
		CustomerID:        customer.ID,
		CustomerName:      customer.FullName,
		Amount:            req.Amount,
		DueDate:           *due,
		Type:              req.Type,
		Description:       req.Description,
		CollectionNotes:   req.CollectionNotes,
		Cycle:             req.Cycle,
		CycleCounter:      req.CycleCounter,
		IsFirstCollection: req.IsFirstCollection,
	}
	packageID := req.PackageID
	if packageID == nil {
		packageID = customer.PackageID
	}
	if packageID != nil {
		pkg, err := h.store.GetPackage(r.Context(), merchantID, *packageID)
		if err != nil {
			return nil, notFoundIf(err, "package not found")
		}
		c.PackageID, c.PackageName, c.PackageAmount = &pkg.ID, pkg.Name, pkg.Amount
	}
	return c, nil
}

// @Summary List collections
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param status query string false "Collection status"
// @Param type query string false "Collection type"
// @Param search query string false "Customer, package or description"
// @Success 200 {object} APIResponse{data=[]models.Collection}
// @Router /merchant/collections [get]
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListCollections(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Collections with one status
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param status path string true "Pending, Collected, Overdue, Partial or Cancelled"
// @Success 200 {object} APIResponse{data=[]models.Collection}
// @Router /merchant/collections/status/{status} [get]
func (h *Handler) CollectionsByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	if !models.ValidCollectionStatus(status) {
		respondErr(w, r, badRequest("invalid collection status: "+sanitizeLogValue(status)), "")
		return
	}
	f := filterFromQuery(r)
	f.Status = status
	items, total, err := h.store.ListCollections(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Overdue collections
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Collection}
// @Router /merchant/collections/overdue [get]
func (h *Handler) OverdueCollections(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.OverdueCollections(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, items)
}

// CreateCollection schedules a collection. Priority follows the due date.
//
// @Summary Create a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CollectionRequest true "Collection"
// @Success 201 {object} APIResponse{data=models.Collection}
// @Router /merchant/collections [post]
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	c, err := h.buildCollection(r, tenant(r), req)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.CreateCollection(r.Context(), c); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created collection", fmt.Sprintf("Scheduled %s from %s", c.Amount, c.CustomerName))
	NewResponseWriter(w, r).Created("Collection created successfully", c)
}

// BulkCreateCollections creates each collection independently. The response
// is 201 when every item succeeds and 207 otherwise, with one result per item.
//
// @Summary Create collections in bulk
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkCollectionRequest true "Collections"
// @Success 201 {object} APIResponse{data=[]BulkResult}
// @Success 207 {object} APIResponse{data=[]BulkResult}
// @Router /merchant/collections/bulk [post]
func (h *Handler) BulkCreateCollections(w http.ResponseWriter, r *http.Request) {
	var req BulkCollectionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	results := make([]BulkResult, len(req.Collections))
	created := 0
	for i := range req.Collections {
		results[i].Index = i
		item := req.Collections[i]
		if verr := validation.ValidateStruct(&item); verr != nil {
			results[i].Error = verr.Error()
			continue
		}
		c, err := h.buildCollection(r, merchantID, item)
		if err == nil {
			err = h.store.CreateCollection(r.Context(), c)
		}
		if err != nil {
			results[i].Error = bulkErrorMessage(err)
			continue
		}
		results[i].Success, results[i].Collection = true, c
		created++
	}

	if created > 0 {
		h.activity(r, "Created collections", fmt.Sprintf("Scheduled %d of %d collections", created, len(results)))
	}
	rw := NewResponseWriter(w, r)
	if created == len(results) {
		rw.Created(fmt.Sprintf("%d collections created", created), results)
		return
	}
	rw.Status(http.StatusMultiStatus, fmt.Sprintf("%d of %d collections created", created, len(results)), results)
}

// bulkErrorMessage hides internal failures from per-item results.
func bulkErrorMessage(err error) string {
	var he *httpError
	if errors.As(err, &he) {
		return he.message
	}
	return "failed to create collection"
}

func (h *Handler) collectionFromPath(w http.ResponseWriter, r *http.Request) (*models.Collection, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	c, err := h.store.GetCollection(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "collection not found")
		return nil, false
	}
	return c, true
}

// @Summary Get a collection
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Success 200 {object} APIResponse{data=models.Collection}
// @Router /merchant/collections/{id} [get]
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.collectionFromPath(w, r); ok {
		WriteSuccess(w, r, c)
	}
}

// @Summary Update a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Param body body UpdateCollectionRequest true "Collection"
// @Success 200 {object} APIResponse{data=models.Collection}
// @Router /merchant/collections/{id} [put]
func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.collectionFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateCollectionRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.Status != "" && !models.ValidCollectionStatus(req.Status) {
		respondErr(w, r, badRequest("invalid collection status: "+req.Status), "")
		return
	}
	c, err := h.buildCollection(r, existing.MerchantID, req.CollectionRequest)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	c.ID = existing.ID
	c.Status = existing.Status
	if req.Status != "" {
		c.Status = req.Status
	}
	c.AmountCollected, c.CollectedDate, c.ReminderSent = existing.AmountCollected, existing.CollectedDate, existing.ReminderSent
	c.CreatedAt = existing.CreatedAt
	if c.Cycle == 0 {
		c.Cycle = existing.Cycle
	}
	if c.CycleCounter == 0 {
		c.CycleCounter = existing.CycleCounter
	}
	if err := h.store.UpdateCollection(r.Context(), c); err != nil {
		respondErr(w, r, err, "collection not found")
		return
	}
	h.activity(r, "Updated collection", fmt.Sprintf("Updated collection %d for %s", c.ID, c.CustomerName))
	NewResponseWriter(w, r).Message("Collection updated successfully", c)
}

// CollectCollection marks a collection collected. An omitted amount means
// the full amount due.
//
// @Summary Record a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Param body body CollectRequest false "Amount and notes"
// @Success 200 {object} APIResponse{data=models.Collection}
// @Router /merchant/collections/{id}/collect [post]
func (h *Handler) CollectCollection(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.collectionFromPath(w, r)
	if !ok {
		return
	}
	var req CollectRequest
	if r.ContentLength != 0 {
		if err := bind(w, r, &req); err != nil {
			respondErr(w, r, err, "")
			return
		}
	}
	switch existing.Status {
	case models.CollectionCollected:
		respondErr(w, r, conflict("collection already collected"), "")
		return
	case models.CollectionCancelled:
		respondErr(w, r, badRequest("collection is cancelled"), "")
		return
	}
	c, err := h.store.MarkCollected(r.Context(), existing.MerchantID, existing.ID, req.Amount, req.Notes)
	if err != nil {
		respondErr(w, r, err, "collection not found")
		return
	}
	h.activity(r, "Collected payment", fmt.Sprintf("Collected %s from %s", c.AmountCollected, c.CustomerName))
	NewResponseWriter(w, r).Message("Collection recorded successfully", c)
}

// @Summary Delete a collection
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Success 200 {object} APIResponse
// @Router /merchant/collections/{id} [delete]
func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	c, ok := h.collectionFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCollection(r.Context(), c.MerchantID, c.ID); err != nil {
		respondErr(w, r, err, "collection not found")
		return
	}
	h.activity(r, "Deleted collection", fmt.Sprintf("Deleted collection %d for %s", c.ID, c.CustomerName))
	NewResponseWriter(w, r).Message("Collection deleted successfully", nil)
}

// Remittances

type RemittanceRequest struct {
	CollectionID *int64       `json:"collectionId" validate:"omitempty,gt=0"`
	CustomerID   int64        `json:"customerId" validate:"required,gt=0"`
	Amount       models.Money `json:"amount" validate:"gt=0"`
	AgentID      *int64       `json:"agentId" validate:"omitempty,gt=0"`
	Notes        string       `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateRemittanceRequest struct {
	Amount  *models.Money `json:"amount" validate:"omitempty,gt=0"`
	AgentID *int64        `json:"agentId" validate:"omitempty,gt=0"`
	Notes   *string       `json:"notes" validate:"omitempty,max=1000"`
}

// @Summary List remittances
// @Tags Remittances
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending, Approved or Rejected"
// @Success 200 {object} APIResponse{data=[]models.Remittance}
// @Router /merchant/remittances [get]
func (h *Handler) ListRemittances(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListRemittances(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Record a remittance
// @Tags Remittances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RemittanceRequest true "Remittance"
// @Success 201 {object} APIResponse{data=models.Remittance}
// @Router /merchant/remittances [post]
func (h *Handler) CreateRemittance(w http.ResponseWriter, r *http.Request) {
	var req RemittanceRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	customer, err := h.store.GetCustomer(r.Context(), merchantID, req.CustomerID)
	if err != nil {
		respondErr(w, r, err, "customer not found")
		return
	}
	if req.CollectionID != nil {
		if _, err := h.store.GetCollection(r.Context(), merchantID, *req.CollectionID); err != nil {
			respondErr(w, r, err, "collection not found")
			return
		}
	}
	rem := &models.Remittance{
		MerchantID:    merchantID,
		CollectionID:  req.CollectionID,
		CustomerID:    customer.ID,
		CustomerName:  customer.FullName,
		AccountNumber: customer.AccountNumber,
		Amount:        req.Amount,
		Notes:         req.Notes,
	}
	if err := h.setRemittanceAgent(r, rem, req.AgentID); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.CreateRemittance(r.Context(), rem); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Recorded remittance", fmt.Sprintf("Recorded %s remittance for %s", rem.Amount, rem.CustomerName))
	NewResponseWriter(w, r).Created("Remittance created successfully", rem)
}

func (h *Handler) setRemittanceAgent(r *http.Request, rem *models.Remittance, agentID *int64) error {
	if agentID == nil {
		return nil
	}
	agent, err := h.store.GetAgent(r.Context(), rem.MerchantID, *agentID)
	if err != nil {
		return notFoundIf(err, "agent not found")
	}
	rem.AgentID, rem.AgentName = &agent.ID, agent.FullName
	return nil
}

func (h *Handler) remittanceFromPath(w http.ResponseWriter, r *http.Request) (*models.Remittance, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	rem, err := h.store.GetRemittance(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "remittance not found")
		return nil, false
	}
	return rem, true
}

// @Summary Get a remittance
// @Tags Remittances
// @Produce json
// @Security BearerAuth
// @Param id path int true "Remittance ID"
// @Success 200 {object} APIResponse{data=models.Remittance}
// @Router /merchant/remittances/{id} [get]
func (h *Handler) GetRemittance(w http.ResponseWriter, r *http.Request) {
	if rem, ok := h.remittanceFromPath(w, r); ok {
		WriteSuccess(w, r, rem)
	}
}

// @Summary Update a pending remittance
// @Tags Remittances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Remittance ID"
// @Param body body UpdateRemittanceRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Remittance}
// @Router /merchant/remittances/{id} [put]
func (h *Handler) UpdateRemittance(w http.ResponseWriter, r *http.Request) {
	rem, ok := h.remittanceFromPath(w, r)
	if !ok {
		return
	}
	if rem.Status != models.RemittancePending {
		respondErr(w, r, badRequest("only pending remittances can be changed"), "")
		return
	}
	var req UpdateRemittanceRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.Amount != nil {
		rem.Amount = *req.Amount
	}
	setString(&rem.Notes, req.Notes)
	if err := h.setRemittanceAgent(r, rem, req.AgentID); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.store.UpdateRemittance(r.Context(), rem); err != nil {
		respondErr(w, r, err, "remittance not found")
		return
	}
	h.activity(r, "Updated remittance", fmt.Sprintf("Updated remittance %d", rem.ID))
	NewResponseWriter(w, r).Message("Remittance updated successfully", rem)
}

// @Summary Approve a remittance
// @Tags Remittances
// @Produce json
// @Security BearerAuth
// @Param id path int true "Remittance ID"
// @Success 200 {object} APIResponse{data=models.Remittance}
// @Router /merchant/remittances/{id}/approve [post]
func (h *Handler) ApproveRemittance(w http.ResponseWriter, r *http.Request) {
	rem, ok := h.remittanceFromPath(w, r)
	if !ok {
		return
	}
	if rem.Status == models.RemittanceApproved {
		respondErr(w, r, conflict("remittance already approved"), "")
		return
	}
	approved, err := h.store.ApproveRemittance(r.Context(), rem.MerchantID, rem.ID)
	if err != nil {
		respondErr(w, r, err, "remittance not found")
		return
	}
	h.activity(r, "Approved remittance", fmt.Sprintf("Approved %s remittance for %s", approved.Amount, approved.CustomerName))
	NewResponseWriter(w, r).Message("Remittance approved successfully", approved)
}

// @Summary Delete a remittance
// @Tags Remittances
// @Produce json
// @Security BearerAuth
// @Param id path int true "Remittance ID"
// @Success 200 {object} APIResponse
// @Router /merchant/remittances/{id} [delete]
func (h *Handler) DeleteRemittance(w http.ResponseWriter, r *http.Request) {
	rem, ok := h.remittanceFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteRemittance(r.Context(), rem.MerchantID, rem.ID); err != nil {
		respondErr(w, r, err, "remittance not found")
		return
	}
	h.activity(r, "Deleted remittance", fmt.Sprintf("Deleted remittance %d", rem.ID))
	NewResponseWriter(w, r).Message("Remittance deleted successfully", nil)
}

