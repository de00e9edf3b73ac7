// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/store"
)

// @Summary Merchant profile
// @Tags Merchant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=models.Merchant}
// @Router /merchant/profile [get]
func (h *Handler) MerchantProfile(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.GetMerchant(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	WriteSuccess(w, r, m)
}

type UpdateProfileRequest struct {
	BusinessName  *string `json:"businessName" validate:"omitempty,min=2,max=200"`
	BusinessAlias *string `json:"businessAlias" validate:"omitempty,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,phone"`
	Currency      *string `json:"currency" validate:"omitempty,currency"`
}

// UpdateMerchantProfile edits the tenant's business details. The plan is
// changed from the console only.
//
// @Summary Update merchant profile
// @Tags Merchant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Merchant}
// @Router /merchant/profile [put]
func (h *Handler) UpdateMerchantProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	m, err := h.store.GetMerchant(r.Context(), tenant(r))
	if err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	setString(&m.BusinessName, req.BusinessName)
	setString(&m.BusinessAlias, req.BusinessAlias)
	setString(&m.Phone, req.Phone)
	setString(&m.Currency, req.Currency)
	if err := h.store.UpdateMerchant(r.Context(), m); err != nil {
		respondErr(w, r, err, "merchant not found")
		return
	}
	h.activity(r, "Updated profile", "Updated business profile")
	NewResponseWriter(w, r).Message("Profile updated successfully", m)
}

// @Summary Current subscription and usage
// @Tags Merchant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=Subscription}
// @Router /merchant/subscription [get]
func (h *Handler) MerchantSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscription(r, tenant(r))
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, sub)
}

// @Summary List collaborators
// @Tags Merchant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Collaborator}
// @Router /merchant/collaborators [get]
func (h *Handler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListCollaborators(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// Agents

type AgentRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Branch   string `json:"branch" validate:"omitempty,max=200"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

type UpdateAgentRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,phone"`
	Branch   *string `json:"branch" validate:"omitempty,max=200"`
}

// @Summary List agents
// @Tags Agents
// @Produce json
// @Security BearerAuth
// @Param status query string false "Active or Inactive"
// @Param search query string false "Name, email, phone or branch"
// @Success 200 {object} APIResponse{data=[]models.Agent}
// @Router /merchant/agents [get]
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListAgents(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateAgent adds a field agent within the plan's agent quota.
//
// @Summary Create an agent
// @Tags Agents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AgentRequest true "Agent"
// @Success 201 {object} APIResponse{data=models.Agent}
// @Failure 403 {object} APIResponse "QUOTA_EXCEEDED"
// @Failure 409 {object} APIResponse
// @Router /merchant/agents [post]
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req AgentRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	if err := h.checkQuota(r.Context(), merchantID, quotaAgents); err != nil {
		respondErr(w, r, err, "")
		return
	}
	taken, err := h.store.AgentEmailTaken(r.Context(), merchantID, req.Email)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if taken {
		respondErr(w, r, conflict("an agent with this email already exists"), "")
		return
	}
	a := &models.Agent{
		MerchantID: merchantID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Branch:     req.Branch,
	}
	if req.Password != "" {
		if a.PasswordHash, err = auth.HashPassword(req.Password, h.bcryptCost()); err != nil {
			respondErr(w, r, err, "")
			return
		}
	}
	if err := h.store.CreateAgent(r.Context(), a); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created agent", "Added agent "+a.FullName)
	NewResponseWriter(w, r).Created("Agent created successfully", a)
}

func (h *Handler) agentFromPath(w http.ResponseWriter, r *http.Request) (*models.Agent, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	a, err := h.store.GetAgent(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "agent not found")
		return nil, false
	}
	return a, true
}

// @Summary Get an agent
// @Tags Agents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Success 200 {object} APIResponse{data=models.Agent}
// @Router /merchant/agents/{id} [get]
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	if a, ok := h.agentFromPath(w, r); ok {
		WriteSuccess(w, r, a)
	}
}

// @Summary Update an agent
// @Tags Agents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Param body body UpdateAgentRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Agent}
// @Router /merchant/agents/{id} [put]
func (h *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := h.agentFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateAgentRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.Email != nil && normalizeEmail(*req.Email) != a.Email {
		taken, err := h.store.AgentEmailTaken(r.Context(), a.MerchantID, *req.Email)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		if taken {
			respondErr(w, r, conflict("an agent with this email already exists"), "")
			return
		}
		a.Email = normalizeEmail(*req.Email)
	}
	setString(&a.FullName, req.FullName)
	setString(&a.Phone, req.Phone)
	setString(&a.Branch, req.Branch)
	if err := h.store.UpdateAgent(r.Context(), a); err != nil {
		respondErr(w, r, err, "agent not found")
		return
	}
	h.activity(r, "Updated agent", "Updated agent "+a.FullName)
	NewResponseWriter(w, r).Message("Agent updated successfully", a)
}

// @Summary Set agent status
// @Tags Agents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Param body body StatusRequest true "Active or Inactive"
// @Success 200 {object} APIResponse{data=models.Agent}
// @Router /merchant/agents/{id}/status [patch]
func (h *Handler) SetAgentStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := h.agentFromPath(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidMerchantStatus(req.Status) {
		respondErr(w, r, badRequest("status must be Active or Inactive"), "")
		return
	}
	if err := h.store.SetAgentStatus(r.Context(), a.MerchantID, a.ID, req.Status); err != nil {
		respondErr(w, r, err, "agent not found")
		return
	}
	a.Status = req.Status
	h.activity(r, "Updated agent status", fmt.Sprintf("Set agent %s to %s", a.FullName, req.Status))
	NewResponseWriter(w, r).Message("Agent status updated successfully", a)
}

// Branches

type BranchRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	State    string `json:"state" validate:"omitempty,max=100"`
	Location string `json:"location" validate:"omitempty,max=500"`
}

// @Summary List branches
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Branch}
// @Router /merchant/branches [get]
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListBranches(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Create a branch
// @Tags Branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BranchRequest true "Branch"
// @Success 201 {object} APIResponse{data=models.Branch}
// @Failure 403 {object} APIResponse "QUOTA_EXCEEDED"
// @Router /merchant/branches [post]
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req BranchRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	if err := h.checkQuota(r.Context(), merchantID, quotaBranches); err != nil {
		respondErr(w, r, err, "")
		return
	}
	b := &models.Branch{MerchantID: merchantID, Name: req.Name, State: req.State, Location: req.Location}
	if err := h.store.CreateBranch(r.Context(), b); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created branch", "Added branch "+b.Name)
	NewResponseWriter(w, r).Created("Branch created successfully", b)
}

func (h *Handler) branchFromPath(w http.ResponseWriter, r *http.Request) (*models.Branch, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	b, err := h.store.GetBranch(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "branch not found")
		return nil, false
	}
	return b, true
}

// @Summary Get a branch
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 200 {object} APIResponse{data=models.Branch}
// @Router /merchant/branches/{id} [get]
func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	if b, ok := h.branchFromPath(w, r); ok {
		WriteSuccess(w, r, b)
	}
}

// @Summary Update a branch
// @Tags Branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Param body body BranchRequest true "Branch"
// @Success 200 {object} APIResponse{data=models.Branch}
// @Router /merchant/branches/{id} [put]
func (h *Handler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	b, ok := h.branchFromPath(w, r)
	if !ok {
		return
	}
	var req BranchRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	b.Name, b.State, b.Location = req.Name, req.State, req.Location
	if err := h.store.UpdateBranch(r.Context(), b); err != nil {
		respondErr(w, r, err, "branch not found")
		return
	}
	h.activity(r, "Updated branch", "Updated branch "+b.Name)
	NewResponseWriter(w, r).Message("Branch updated successfully", b)
}

// @Summary Delete a branch
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 200 {object} APIResponse
// @Router /merchant/branches/{id} [delete]
func (h *Handler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	b, ok := h.branchFromPath(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteBranch(r.Context(), b.MerchantID, b.ID); err != nil {
		respondErr(w, r, err, "branch not found")
		return
	}
	h.activity(r, "Deleted branch", "Deleted branch "+b.Name)
	NewResponseWriter(w, r).Message("Branch deleted successfully", nil)
}

// Customers

type CustomerRequest struct {
	FullName  string `json:"fullName" validate:"required,min=2,max=200"`
	Phone     string `json:"phoneNumber" validate:"required,phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	AgentID   int64  `json:"agentId" validate:"required,gt=0"`
	BranchID  int64  `json:"branchId" validate:"required,gt=0"`
	PackageID *int64 `json:"packageId" validate:"omitempty,gt=0"`
	Alias     string `json:"alias" validate:"omitempty,max=100"`
	Address   string `json:"address" validate:"omitempty,max=500"`
}

type UpdateCustomerRequest struct {
	FullName  *string `json:"fullName" validate:"omitempty,min=2,max=200"`
	Phone     *string `json:"phoneNumber" validate:"omitempty,phone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	AgentID   *int64  `json:"agentId" validate:"omitempty,gt=0"`
	BranchID  *int64  `json:"branchId" validate:"omitempty,gt=0"`
	PackageID *int64  `json:"packageId" validate:"omitempty,gt=0"`
	Alias     *string `json:"alias" validate:"omitempty,max=100"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

// CreatedCustomer is a new customer and the wallet opened for it.
type CreatedCustomer struct {
	*models.Customer
	Wallet *models.CustomerWallet `json:"wallet"`
}

// accountNumber returns a random 10 digit account number.
func accountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9_000_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%010d", n.Int64()+1_000_000_000), nil
}

// checkCustomerRefs confirms the agent, branch and package belong to the tenant.
func (h *Handler) checkCustomerRefs(r *http.Request, merchantID, agentID, branchID int64, packageID *int64) error {
	if _, err := h.store.GetAgent(r.Context(), merchantID, agentID); err != nil {
		return notFoundIf(err, "agent not found")
	}
	if _, err := h.store.GetBranch(r.Context(), merchantID, branchID); err != nil {
		return notFoundIf(err, "branch not found")
	}
	if packageID != nil {
		if _, err := h.store.GetPackage(r.Context(), merchantID, *packageID); err != nil {
			return notFoundIf(err, "package not found")
		}
	}
	return nil
}

// @Summary List customers
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email, phone or account number"
// @Success 200 {object} APIResponse{data=[]models.Customer}
// @Router /merchant/customers [get]
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListCustomers(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// CreateCustomer stores the customer and its wallet together, then
// publishes customer.created so a virtual account is requested in the
// background.
//
// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CustomerRequest true "Customer"
// @Success 201 {object} APIResponse{data=CreatedCustomer}
// @Failure 403 {object} APIResponse "QUOTA_EXCEEDED"
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /merchant/customers [post]
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	if err := h.checkQuota(r.Context(), merchantID, quotaCustomers); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.checkCustomerRefs(r, merchantID, req.AgentID, req.BranchID, req.PackageID); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.Email != "" {
		taken, err := h.store.CustomerEmailTaken(r.Context(), merchantID, req.Email)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		if taken {
			respondErr(w, r, conflict("a customer with this email already exists"), "")
			return
		}
	}
	number, err := accountNumber()
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	c := &models.Customer{
		MerchantID:    merchantID,
		AgentID:       req.AgentID,
		BranchID:      req.BranchID,
		PackageID:     req.PackageID,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		AccountNumber: number,
		Alias:         req.Alias,
		Address:       req.Address,
	}
	wallet := &models.CustomerWallet{MerchantID: merchantID, AccountNumber: number}
	err = h.store.InTx(r.Context(), func(tx *store.Store) error {
		if err := tx.CreateCustomer(r.Context(), c); err != nil {
			return err
		}
		wallet.CustomerID = c.ID
		return tx.CreateCustomerWallet(r.Context(), wallet)
	})
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	wallet.CustomerName = c.FullName
	h.invalidateDashboard(merchantID)

	p := principal(r)
	h.publish(r.Context(), events.TopicCustomerCreated, events.CustomerCreated{
		MerchantID:  merchantID,
		CustomerID:  c.ID,
		FullName:    c.FullName,
		Email:       c.Email,
		Phone:       c.Phone,
		Reference:   c.AccountNumber,
		CreatedByID: p.ID,
		CreatedBy:   personOf(p),
	})
	NewResponseWriter(w, r).Created("Customer created successfully", CreatedCustomer{Customer: c, Wallet: wallet})
}

func (h *Handler) customerFromPath(w http.ResponseWriter, r *http.Request) (*models.Customer, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	c, err := h.store.GetCustomer(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "customer not found")
		return nil, false
	}
	return c, true
}

// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} APIResponse{data=models.Customer}
// @Router /merchant/customers/{id} [get]
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.customerFromPath(w, r); ok {
		WriteSuccess(w, r, c)
	}
}

// @Summary Update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param body body UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Customer}
// @Router /merchant/customers/{id} [put]
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := h.customerFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.AgentID != nil {
		c.AgentID = *req.AgentID
	}
	if req.BranchID != nil {
		c.BranchID = *req.BranchID
	}
	if req.PackageID != nil {
		c.PackageID = req.PackageID
	}
	if err := h.checkCustomerRefs(r, c.MerchantID, c.AgentID, c.BranchID, req.PackageID); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.Email != nil && normalizeEmail(*req.Email) != c.Email {
		taken, err := h.store.CustomerEmailTaken(r.Context(), c.MerchantID, *req.Email)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		if taken {
			respondErr(w, r, conflict("a customer with this email already exists"), "")
			return
		}
		c.Email = normalizeEmail(*req.Email)
	}
	setString(&c.FullName, req.FullName)
	setString(&c.Phone, req.Phone)
	setString(&c.Alias, req.Alias)
	setString(&c.Address, req.Address)
	if err := h.store.UpdateCustomer(r.Context(), c); err != nil {
		respondErr(w, r, err, "customer not found")
		return
	}
	h.activity(r, "Updated customer", "Updated customer "+c.FullName)
	NewResponseWriter(w, r).Message("Customer updated successfully", c)
}

// Merchant roles and staff

type MerchantRoleRequest struct {
	RoleName    string   `json:"roleName" validate:"required,min=2,max=100"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,min=1,max=100"`
}

// @Summary List merchant roles
// @Tags Merchant Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Role}
// @Router /merchant/roles [get]
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListRoles(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Create a merchant role
// @Tags Merchant Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MerchantRoleRequest true "Role"
// @Success 201 {object} APIResponse{data=models.Role}
// @Router /merchant/roles [post]
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req MerchantRoleRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	role := &models.Role{MerchantID: tenant(r), RoleName: req.RoleName, Permissions: models.StringList(req.Permissions)}
	if err := h.store.CreateRole(r.Context(), role); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created role", "Added role "+role.RoleName)
	NewResponseWriter(w, r).Created("Role created successfully", role)
}

func (h *Handler) merchantRoleFromPath(w http.ResponseWriter, r *http.Request) (*models.Role, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	role, err := h.store.GetRole(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "role not found")
		return nil, false
	}
	return role, true
}

// @Summary Get a merchant role
// @Tags Merchant Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} APIResponse{data=models.Role}
// @Router /merchant/roles/{id} [get]
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	if role, ok := h.merchantRoleFromPath(w, r); ok {
		WriteSuccess(w, r, role)
	}
}

// @Summary Update a merchant role
// @Tags Merchant Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body MerchantRoleRequest true "Role"
// @Success 200 {object} APIResponse{data=models.Role}
// @Router /merchant/roles/{id} [put]
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	role, ok := h.merchantRoleFromPath(w, r)
	if !ok {
		return
	}
	var req MerchantRoleRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	role.RoleName = req.RoleName
	role.Permissions = models.StringList(req.Permissions)
	if err := h.store.UpdateRole(r.Context(), role); err != nil {
		respondErr(w, r, err, "role not found")
		return
	}
	h.activity(r, "Updated role", "Updated role "+role.RoleName)
	NewResponseWriter(w, r).Message("Role updated successfully", role)
}

type StaffRequest struct {
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
	FullName string `json:"fullName" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phoneNumber" validate:"omitempty,phone"`
	Branch   string `json:"branch" validate:"omitempty,max=200"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

type UpdateStaffRequest struct {
	RoleID   *int64  `json:"roleId" validate:"omitempty,gt=0"`
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phoneNumber" validate:"omitempty,phone"`
	Branch   *string `json:"branch" validate:"omitempty,max=200"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// @Summary List merchant staff
// @Tags Merchant Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.Staff}
// @Router /merchant/staff [get]
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListStaff(r.Context(), tenant(r), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Create merchant staff
// @Tags Merchant Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StaffRequest true "Staff"
// @Success 201 {object} APIResponse{data=models.Staff}
// @Failure 404 {object} APIResponse
// @Router /merchant/staff [post]
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	merchantID := tenant(r)
	role, err := h.store.GetRole(r.Context(), merchantID, req.RoleID)
	if err != nil {
		respondErr(w, r, err, "role not found")
		return
	}
	st := &models.Staff{
		MerchantID: merchantID,
		RoleID:     role.ID,
		Role:       role.RoleName,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Branch:     req.Branch,
		Status:     req.Status,
	}
	if err := h.store.CreateStaff(r.Context(), st); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.activity(r, "Created staff", fmt.Sprintf("Added %s as %s", st.FullName, st.Role))
	NewResponseWriter(w, r).Created("Staff created successfully", st)
}

func (h *Handler) staffFromPath(w http.ResponseWriter, r *http.Request) (*models.Staff, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	st, err := h.store.GetStaff(r.Context(), tenant(r), id)
	if err != nil {
		respondErr(w, r, err, "staff not found")
		return nil, false
	}
	return st, true
}

// @Summary Get merchant staff
// @Tags Merchant Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} APIResponse{data=models.Staff}
// @Router /merchant/staff/{id} [get]
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	if st, ok := h.staffFromPath(w, r); ok {
		WriteSuccess(w, r, st)
	}
}

// @Summary Update merchant staff
// @Tags Merchant Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param body body UpdateStaffRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.Staff}
// @Router /merchant/staff/{id} [put]
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	st, ok := h.staffFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateStaffRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if req.RoleID != nil && *req.RoleID != st.RoleID {
		role, err := h.store.GetRole(r.Context(), st.MerchantID, *req.RoleID)
		if err != nil {
			respondErr(w, r, err, "role not found")
			return
		}
		st.RoleID, st.Role = role.ID, role.RoleName
	}
	setString(&st.FullName, req.FullName)
	setString(&st.Email, req.Email)
	setString(&st.Phone, req.Phone)
	setString(&st.Branch, req.Branch)
	setString(&st.Status, req.Status)
	if err := h.store.UpdateStaff(r.Context(), st); err != nil {
		respondErr(w, r, err, "staff not found")
		return
	}
	h.activity(r, "Updated staff", "Updated staff "+st.FullName)
	NewResponseWriter(w, r).Message("Staff updated successfully", st)
}
