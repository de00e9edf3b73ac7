// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/mail"
	"github.com/tomtom215/alphaweb/internal/models"
)

// RoleRequest creates or replaces an admin role.
type RoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

// validatePermissions fails with 422 listing any unknown permission.
func validatePermissions(perms []string) error {
	if bad := authz.InvalidPermissions(perms); len(bad) > 0 {
		return unprocessable("invalid permissions: " + strings.Join(bad, ", "))
	}
	return nil
}

// AdminPermissions lists every permission a role may hold.
//
// @Summary List permissions
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]string}
// @Router /admin/permissions [get]
func (h *Handler) AdminPermissions(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, authz.Permissions)
}

// @Summary List admin roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]models.AdminRole}
// @Router /admin/roles [get]
func (h *Handler) AdminListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.store.AllAdminRoles(r.Context())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	WriteSuccess(w, r, roles)
}

// AdminCreateRole stores a role and loads its policies into the enforcer.
//
// @Summary Create an admin role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequest true "Role"
// @Success 201 {object} APIResponse{data=models.AdminRole}
// @Failure 409 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Router /admin/roles [post]
func (h *Handler) AdminCreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := validatePermissions(req.Permissions); err != nil {
		respondErr(w, r, err, "")
		return
	}
	role := &models.AdminRole{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Permissions: models.StringList(req.Permissions),
		Status:      req.Status,
	}
	if err := h.store.CreateAdminRole(r.Context(), role); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.enforcer.SetRole(*role); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "create_role", entityRole, role.ID, "Created role "+role.Name,
		models.JSONMap{"permissions": req.Permissions})
	NewResponseWriter(w, r).Created("Role created successfully", role)
}

func (h *Handler) roleFromPath(w http.ResponseWriter, r *http.Request) (*models.AdminRole, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	role, err := h.store.GetAdminRole(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "role not found")
		return nil, false
	}
	return role, true
}

// @Summary Get an admin role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} APIResponse{data=models.AdminRole}
// @Router /admin/roles/{id} [get]
func (h *Handler) AdminGetRole(w http.ResponseWriter, r *http.Request) {
	if role, ok := h.roleFromPath(w, r); ok {
		WriteSuccess(w, r, role)
	}
}

// @Summary Update an admin role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body RoleRequest true "Role"
// @Success 200 {object} APIResponse{data=models.AdminRole}
// @Failure 422 {object} APIResponse
// @Router /admin/roles/{id} [put]
func (h *Handler) AdminUpdateRole(w http.ResponseWriter, r *http.Request) {
	role, ok := h.roleFromPath(w, r)
	if !ok {
		return
	}
	var req RoleRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := validatePermissions(req.Permissions); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if role.Name == models.SuperAdministratorRole && strings.TrimSpace(req.Name) != role.Name {
		respondErr(w, r, forbidden("the Super Administrator role cannot be renamed"), "")
		return
	}
	previous := []string(role.Permissions)
	role.Name = strings.TrimSpace(req.Name)
	role.Description = req.Description
	role.Permissions = models.StringList(req.Permissions)
	if req.Status != "" {
		role.Status = req.Status
	}
	if err := h.store.UpdateAdminRole(r.Context(), role); err != nil {
		respondErr(w, r, err, "role not found")
		return
	}
	if err := h.enforcer.SetRole(*role); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "update_role", entityRole, role.ID, "Updated role "+role.Name,
		models.JSONMap{"before": previous, "after": req.Permissions})
	NewResponseWriter(w, r).Message("Role updated successfully", role)
}

// AdminDeleteRole refuses to delete the Super Administrator role or any
// role still assigned to staff.
//
// @Summary Delete an admin role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Router /admin/roles/{id} [delete]
func (h *Handler) AdminDeleteRole(w http.ResponseWriter, r *http.Request) {
	role, ok := h.roleFromPath(w, r)
	if !ok {
		return
	}
	if role.Name == models.SuperAdministratorRole {
		respondErr(w, r, forbidden("the Super Administrator role cannot be deleted"), "")
		return
	}
	n, err := h.store.CountStaffWithRole(r.Context(), role.ID)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	if n > 0 {
		respondErr(w, r, badRequest(fmt.Sprintf("role is assigned to %d staff member(s); reassign them first", n)), "")
		return
	}
	if err := h.store.DeleteAdminRole(r.Context(), role.ID); err != nil {
		respondErr(w, r, err, "role not found")
		return
	}
	if err := h.enforcer.RemoveRole(role.ID); err != nil {
		respondErr(w, r, err, "")
		return
	}
	h.logAdmin(r, "delete_role", entityRole, role.ID, "Deleted role "+role.Name, nil)
	NewResponseWriter(w, r).Message("Role deleted successfully", nil)
}

// CreateAdminStaffRequest invites a console operator. A temporary password
// is generated when Password is empty.
type CreateAdminStaffRequest struct {
	RoleID   int64  `json:"roleId" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phoneNumber" validate:"omitempty,phone"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

type UpdateAdminStaffRequest struct {
	RoleID       *int64  `json:"roleId" validate:"omitempty,gt=0"`
	Name         *string `json:"name" validate:"omitempty,min=2,max=200"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phoneNumber" validate:"omitempty,phone"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
}

// CreatedAdminStaff is returned once; the invite email carries the password.
type CreatedAdminStaff struct {
	*models.AdminStaff
	InviteSent bool `json:"inviteSent"`
}

func tempPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// @Summary List admin staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, inactive or suspended"
// @Param search query string false "Name or email"
// @Success 200 {object} APIResponse{data=[]models.AdminStaff}
// @Router /admin/staff [get]
func (h *Handler) AdminListStaff(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	items, total, err := h.store.ListAdminStaff(r.Context(), f)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	NewResponseWriter(w, r).Page(items, f.Info(total))
}

// @Summary Create admin staff
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAdminStaffRequest true "Staff"
// @Success 201 {object} APIResponse{data=CreatedAdminStaff}
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /admin/staff [post]
func (h *Handler) AdminCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminStaffRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	role, err := h.store.GetAdminRole(r.Context(), req.RoleID)
	if err != nil {
		respondErr(w, r, err, "role not found")
		return
	}
	password := req.Password
	if password == "" {
		if password, err = tempPassword(); err != nil {
			respondErr(w, r, err, "")
			return
		}
	}
	hash, err := auth.HashPassword(password, h.bcryptCost())
	if err != nil {
		respondErr(w, r, err, "")
		return
	}
	staff := &models.AdminStaff{
		RoleID:       role.ID,
		RoleName:     role.Name,
		Name:         req.Name,
		Email:        normalizeEmail(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := h.store.CreateAdminStaff(r.Context(), staff); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if err := h.enforcer.BindStaff(staff.ID, role.ID); err != nil {
		respondErr(w, r, err, "")
		return
	}

	sent := true
	if err := h.mailer.Send(r.Context(), mail.StaffInviteMessage(staff.Email, staff.Name, role.Name, password)); err != nil {
		sent = false
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("email", logging.MaskEmail(staff.Email)).
			Msg("Failed to send staff invite")
	}
	h.logAdmin(r, "create_staff", entityStaff, staff.ID, fmt.Sprintf("Added %s as %s", staff.Name, role.Name), nil)
	NewResponseWriter(w, r).Created("Staff created successfully", CreatedAdminStaff{AdminStaff: staff, InviteSent: sent})
}

func (h *Handler) adminStaffFromPath(w http.ResponseWriter, r *http.Request) (*models.AdminStaff, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, r, err, "")
		return nil, false
	}
	staff, err := h.store.GetAdminStaff(r.Context(), id)
	if err != nil {
		respondErr(w, r, err, "staff not found")
		return nil, false
	}
	return staff, true
}

// @Summary Get admin staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} APIResponse{data=models.AdminStaff}
// @Router /admin/staff/{id} [get]
func (h *Handler) AdminGetStaff(w http.ResponseWriter, r *http.Request) {
	if staff, ok := h.adminStaffFromPath(w, r); ok {
		WriteSuccess(w, r, staff)
	}
}

// @Summary Update admin staff
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param body body UpdateAdminStaffRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=models.AdminStaff}
// @Router /admin/staff/{id} [put]
func (h *Handler) AdminUpdateStaff(w http.ResponseWriter, r *http.Request) {
	staff, ok := h.adminStaffFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateAdminStaffRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	roleChanged := false
	if req.RoleID != nil && *req.RoleID != staff.RoleID {
		role, err := h.store.GetAdminRole(r.Context(), *req.RoleID)
		if err != nil {
			respondErr(w, r, err, "role not found")
			return
		}
		staff.RoleID, staff.RoleName = role.ID, role.Name
		roleChanged = true
	}
	setString(&staff.Name, req.Name)
	setString(&staff.Phone, req.Phone)
	setString(&staff.ProfileImage, req.ProfileImage)
	if req.Email != nil {
		staff.Email = normalizeEmail(*req.Email)
	}

	if err := h.store.UpdateAdminStaff(r.Context(), staff); err != nil {
		respondErr(w, r, err, "staff not found")
		return
	}
	if roleChanged && staff.Status == models.StaffActive {
		if err := h.enforcer.BindStaff(staff.ID, staff.RoleID); err != nil {
			respondErr(w, r, err, "")
			return
		}
	}
	h.logAdmin(r, "update_staff", entityStaff, staff.ID, "Updated staff "+staff.Name, nil)
	NewResponseWriter(w, r).Message("Staff updated successfully", staff)
}

// AdminSetStaffStatus changes a staff member's status. Only active staff
// keep their role binding.
//
// @Summary Set admin staff status
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param body body StatusRequest true "active, inactive or suspended"
// @Success 200 {object} APIResponse{data=models.AdminStaff}
// @Router /admin/staff/{id}/status [patch]
func (h *Handler) AdminSetStaffStatus(w http.ResponseWriter, r *http.Request) {
	staff, ok := h.adminStaffFromPath(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := bind(w, r, &req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	if !models.ValidAdminStaffStatus(req.Status) {
		respondErr(w, r, badRequest("status must be active, inactive or suspended"), "")
		return
	}
	if err := h.applyStaffStatus(r, staff, req.Status); err != nil {
		respondErr(w, r, err, "staff not found")
		return
	}
	NewResponseWriter(w, r).Message("Staff status updated successfully", staff)
}

// @Summary Deactivate admin staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} APIResponse
// @Router /admin/staff/{id} [delete]
func (h *Handler) AdminDeactivateStaff(w http.ResponseWriter, r *http.Request) {
	staff, ok := h.adminStaffFromPath(w, r)
	if !ok {
		return
	}
	if p := principal(r); p.Kind == auth.KindAdminStaff && p.ID == staff.ID {
		respondErr(w, r, badRequest("you cannot deactivate your own account"), "")
		return
	}
	if err := h.applyStaffStatus(r, staff, models.StaffInactive); err != nil {
		respondErr(w, r, err, "staff not found")
		return
	}
	NewResponseWriter(w, r).Message("Staff deactivated successfully", nil)
}

func (h *Handler) applyStaffStatus(r *http.Request, staff *models.AdminStaff, status string) error {
	if err := h.store.SetAdminStaffStatus(r.Context(), staff.ID, status); err != nil {
		return err
	}
	var err error
	if status == models.StaffActive {
		err = h.enforcer.BindStaff(staff.ID, staff.RoleID)
	} else {
		err = h.enforcer.UnbindStaff(staff.ID)
	}
	if err != nil {
		return err
	}
	h.logAdmin(r, "update_staff_status", entityStaff, staff.ID,
		fmt.Sprintf("Changed %s status from %s to %s", staff.Name, staff.Status, status),
		models.JSONMap{"from": staff.Status, "to": status})
	staff.Status = status
	return nil
}
