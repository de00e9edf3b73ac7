// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/otp"
)

// MerchantSignup is the self-service registration form.
type MerchantSignup struct {
	BusinessName  string
	BusinessAlias string
	Phone         string
	Email         string
	Currency      string
	Password      string
}

// CollaboratorSignup registers a team member under an existing merchant.
type CollaboratorSignup struct {
	MerchantID int64
	FullName   string
	Email      string
	Phone      string
	Role       string
	Password   string
}

// SignupResult is returned for both signup kinds. A mail failure does not
// fail signup; EmailSent is false instead.
type SignupResult struct {
	ID int64
	OTPResult
}

// SignupMerchant creates an unverified merchant and mails a verification code.
func (s *Service) SignupMerchant(ctx context.Context, in MerchantSignup) (*SignupResult, error) {
	if _, err := s.store.GetMerchantByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password, s.security.BcryptCost)
	if err != nil {
		return nil, err
	}

	m := &models.Merchant{
		BusinessName:  strings.TrimSpace(in.BusinessName),
		BusinessAlias: strings.TrimSpace(in.BusinessAlias),
		Phone:         in.Phone,
		Email:         in.Email,
		Currency:      strings.ToUpper(in.Currency),
		PasswordHash:  hash,
	}
	if err := s.store.CreateMerchant(ctx, m); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create merchant: %w", err)
	}
	logging.Ctx(ctx).Info().Int64("merchant_id", m.ID).Str("email", logging.MaskEmail(m.Email)).Msg("Merchant registered")

	if s.events != nil {
		ev := events.MerchantRegistered{MerchantID: m.ID, BusinessName: m.BusinessName, Email: m.Email}
		if err := s.events.Publish(ctx, events.TopicMerchantRegistered, ev); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Merchant registered event not published")
		}
	}
	return s.signupCode(ctx, auth.KindMerchant, m.ID, m.Email), nil
}

// SignupCollaborator creates an unverified collaborator for a merchant.
func (s *Service) SignupCollaborator(ctx context.Context, in CollaboratorSignup) (*SignupResult, error) {
	if _, err := s.store.GetMerchant(ctx, in.MerchantID); errors.Is(err, database.ErrNotFound) {
		return nil, ErrMerchantNotFound
	} else if err != nil {
		return nil, err
	}
	if _, err := s.store.GetCollaboratorByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password, s.security.BcryptCost)
	if err != nil {
		return nil, err
	}

	c := &models.Collaborator{
		MerchantID:   in.MerchantID,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := s.store.CreateCollaborator(ctx, c); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create collaborator: %w", err)
	}
	logging.Ctx(ctx).Info().Int64("merchant_id", c.MerchantID).Int64("collaborator_id", c.ID).Msg("Collaborator registered")
	return s.signupCode(ctx, auth.KindCollaborator, c.ID, c.Email), nil
}

func (s *Service) signupCode(ctx context.Context, kind auth.Kind, id int64, email string) *SignupResult {
	res := &SignupResult{ID: id}
	sent, err := s.sendCode(ctx, kind, otp.PurposeVerifyEmail, email)
	res.OTPResult = sent
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", string(kind)).Int64("id", id).Msg("Signup succeeded without verification email")
	}
	return res
}
