// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/alphaweb/internal/accounts"
	"github.com/tomtom215/alphaweb/internal/audit"
	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/otp"
)

// MerchantSignupRequest is the body of POST /auth/merchant/signup.
type MerchantSignupRequest struct {
	BusinessName  string `json:"businessName" validate:"required,min=2,max=200"`
	BusinessAlias string `json:"businessAlias" validate:"omitempty,max=100"`
	Phone         string `json:"phone" validate:"required,phone"`
	Email         string `json:"email" validate:"required,email"`
	Currency      string `json:"currency" validate:"omitempty,currency"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
}

// CollaboratorSignupRequest is the body of POST /auth/collaborator/signup.
type CollaboratorSignupRequest struct {
	MerchantID int64  `json:"merchantId" validate:"required,gt=0"`
	FullName   string `json:"fullName" validate:"required,min=2,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Role       string `json:"role" validate:"omitempty,max=100"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest checks a code. Purpose defaults to verify_email.
type VerifyOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	OTP     string `json:"otp" validate:"required,numeric,min=4,max=10"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=verify_email reset_password"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// SignupResponse reports the new account. OTP is only present when codes are
// exposed for development.
type SignupResponse struct {
	ID        int64  `json:"id"`
	EmailSent bool   `json:"emailSent"`
	OTP       string `json:"otp,omitempty"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	ExpiresAt  string `json:"expiresAt"`
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
	MerchantID int64  `json:"merchantId,omitempty"`
	Role       string `json:"role,omitempty"`
}

type OTPResponse struct {
	EmailSent bool   `json:"emailSent"`
	OTP       string `json:"otp,omitempty"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// signup returns the signup handler for merchants or collaborators.
//
// @Summary Register a merchant or collaborator
// @Description Creates an unverified account and emails a verification code. A mail failure does not fail signup.
// @Tags Auth
// @Accept json
// @Produce json
// @Param kind path string true "merchant or collaborator"
// @Success 201 {object} APIResponse{data=SignupResponse}
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /auth/{kind}/signup [post]
func (h *Handler) signup(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			res *accounts.SignupResult
			err error
		)
		switch kind {
		case auth.KindMerchant:
			var req MerchantSignupRequest
			if err := bind(w, r, &req); err != nil {
				respondErr(w, r, err, "")
				return
			}
			res, err = h.accounts.SignupMerchant(r.Context(), accounts.MerchantSignup{
				BusinessName:  req.BusinessName,
				BusinessAlias: req.BusinessAlias,
				Phone:         req.Phone,
				Email:         normalizeEmail(req.Email),
				Currency:      req.Currency,
				Password:      req.Password,
			})
		default:
			var req CollaboratorSignupRequest
			if err := bind(w, r, &req); err != nil {
				respondErr(w, r, err, "")
				return
			}
			res, err = h.accounts.SignupCollaborator(r.Context(), accounts.CollaboratorSignup{
				MerchantID: req.MerchantID,
				FullName:   req.FullName,
				Email:      normalizeEmail(req.Email),
				Phone:      req.Phone,
				Role:       req.Role,
				Password:   req.Password,
			})
		}
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		msg := "Registration successful. Check your email for the verification code."
		if !res.EmailSent {
			msg = "Registration successful, but the verification email could not be sent. Request a new code."
		}
		NewResponseWriter(w, r).Created(msg, SignupResponse{ID: res.ID, EmailSent: res.EmailSent, OTP: res.Code})
	}
}

// login returns the login handler for kind. The token is returned in the
// body and also set as an HttpOnly cookie.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=LoginResponse}
// @Failure 401 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 429 {object} APIResponse
// @Router /auth/{kind}/login [post]
func (h *Handler) login(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := bind(w, r, &req); err != nil {
			respondErr(w, r, err, "")
			return
		}
		src := audit.SourceFromRequest(r)
		sess, err := h.accounts.Login(r.Context(), kind, normalizeEmail(req.Email), req.Password, src.IPAddress)
		if err != nil {
			respondErr(w, r, err, "")
			return
		}

		if h.cfg != nil && h.cfg.Security.CookieName != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     h.cfg.Security.CookieName,
				Value:    sess.Token,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				Secure:   h.cfg.IsProduction(),
				SameSite: http.SameSiteLaxMode,
			})
		}
		NewResponseWriter(w, r).Message("Login successful", LoginResponse{
			Token:      sess.Token,
			ExpiresAt:  sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			ID:         sess.Principal.ID,
			Email:      sess.Principal.Email,
			Kind:       string(sess.Principal.Kind),
			MerchantID: sess.Principal.MerchantID,
			Role:       sess.Principal.Role,
		})
	}
}

// @Summary Request a password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Account email"
// @Success 200 {object} APIResponse{data=OTPResponse}
// @Failure 404 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /auth/{kind}/forgot-password [post]
func (h *Handler) forgotPassword(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EmailRequest
		if err := bind(w, r, &req); err != nil {
			respondErr(w, r, err, "")
			return
		}
		res, err := h.accounts.ForgotPassword(r.Context(), kind, normalizeEmail(req.Email))
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		NewResponseWriter(w, r).Message("Password reset code sent to your email", OTPResponse{EmailSent: res.EmailSent, OTP: res.Code})
	}
}

// @Summary Resend the verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Account email"
// @Success 200 {object} APIResponse{data=OTPResponse}
// @Router /auth/{kind}/resend-otp [post]
func (h *Handler) resendOTP(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EmailRequest
		if err := bind(w, r, &req); err != nil {
			respondErr(w, r, err, "")
			return
		}
		res, err := h.accounts.ResendOTP(r.Context(), kind, normalizeEmail(req.Email))
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		NewResponseWriter(w, r).Message("Verification code sent", OTPResponse{EmailSent: res.EmailSent, OTP: res.Code})
	}
}

// verifyOTP checks a code. A reset_password code yields a reset token for
// change-password.
//
// @Summary Verify a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Code"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 429 {object} APIResponse
// @Router /auth/{kind}/verify-otp [post]
func (h *Handler) verifyOTP(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyOTPRequest
		if err := bind(w, r, &req); err != nil {
			respondErr(w, r, err, "")
			return
		}
		token, err := h.accounts.VerifyOTP(r.Context(), kind, normalizeEmail(req.Email), req.OTP, otp.Purpose(req.Purpose))
		if err != nil {
			respondErr(w, r, err, "")
			return
		}
		rw := NewResponseWriter(w, r)
		if token != "" {
			rw.Message("Code verified. Use the reset token to set a new password.", map[string]string{"resetToken": token})
			return
		}
		rw.Message("Email verified successfully", nil)
	}
}

// @Summary Set a new password with a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ChangePasswordRequest true "Reset"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /auth/{kind}/change-password [post]
func (h *Handler) changePassword(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChangePasswordRequest
		if err := bind(w, r, &req); err != nil {
			respondErr(w, r, err, "")
			return
		}
		if err := h.accounts.ChangePassword(r.Context(), kind, normalizeEmail(req.Email), req.ResetToken, req.NewPassword); err != nil {
			respondErr(w, r, err, "")
			return
		}
		NewResponseWriter(w, r).Message("Password changed successfully", nil)
	}
}

// MeResponse describes the caller.
type MeResponse struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Kind        string   `json:"kind"`
	MerchantID  int64    `json:"merchantId,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
}

// Me returns the authenticated principal and its console permissions.
//
// @Summary Current principal
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=MeResponse}
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	resp := MeResponse{
		ID:          p.ID,
		Email:       p.Email,
		Kind:        string(p.Kind),
		Role:        p.Role,
		Permissions: []string{},
	}
	if id, ok := p.MerchantScope(); ok {
		resp.MerchantID = id
	}
	if p.Kind.IsAdmin() && h.enforcer != nil {
		resp.Permissions = h.enforcer.PermissionsFor(p)
	}
	WriteSuccess(w, r, resp)
}
