// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/database"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/logging"
	"github.com/tomtom215/alphaweb/internal/mail"
	"github.com/tomtom215/alphaweb/internal/metrics"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/otp"
)

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrEmailNotFound    = errors.New("email not found")
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrNotVerified      = errors.New("please verify your email first")
	ErrAccountInactive  = errors.New("account is not active")
	ErrUnsupportedKind  = errors.New("operation not supported for this account type")
	ErrMailDelivery     = errors.New("failed to send email")
)

// Store is the persistence the service needs.
type Store interface {
	CreateMerchant(ctx context.Context, m *models.Merchant) error
	GetMerchant(ctx context.Context, id int64) (*models.Merchant, error)
	GetMerchantByEmail(ctx context.Context, email string) (*models.Merchant, error)
	MarkMerchantVerified(ctx context.Context, id int64) error
	SetMerchantPassword(ctx context.Context, id int64, hash string) error

	CreateCollaborator(ctx context.Context, c *models.Collaborator) error
	GetCollaboratorByEmail(ctx context.Context, email string) (*models.Collaborator, error)
	MarkCollaboratorVerified(ctx context.Context, id int64) error
	SetCollaboratorPassword(ctx context.Context, id int64, hash string) error

	GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error)
	GetAdminStaffByEmail(ctx context.Context, email string) (*models.AdminStaff, error)
	TouchAdminStaffLogin(ctx context.Context, id int64) error
}

// Deps wires a Service. Events may be nil.
type Deps struct {
	Store    Store
	OTP      *otp.Service
	Mailer   mail.Mailer
	Tokens   *auth.JWTManager
	Lockout  *auth.LockoutManager
	Events   events.Publisher
	Security config.SecurityConfig
	// ExposeOTP echoes issued codes in results. Development only.
	ExposeOTP bool
}

// Service runs the account flows.
type Service struct {
	store     Store
	otp       *otp.Service
	mailer    mail.Mailer
	tokens    *auth.JWTManager
	lockout   *auth.LockoutManager
	events    events.Publisher
	security  config.SecurityConfig
	exposeOTP bool
	authLog   *logging.AuthLogger
	now       func() time.Time
}

func New(d Deps) *Service {
	if d.Lockout == nil {
		d.Lockout = auth.NewLockoutManager(auth.DefaultLockoutConfig())
	}
	return &Service{
		store:     d.Store,
		otp:       d.OTP,
		mailer:    d.Mailer,
		tokens:    d.Tokens,
		lockout:   d.Lockout,
		events:    d.Events,
		security:  d.Security,
		exposeOTP: d.ExposeOTP,
		authLog:   logging.NewAuthLogger(),
		now:       time.Now,
	}
}

// Session is an issued access token.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Principal auth.Principal `json:"-"`
}

// account is the login-relevant view of any principal row.
type account struct {
	id         int64
	merchantID int64
	email      string
	hash       string
	role       string
	verified   bool
	active     bool
}

// principal adapts one account table to the shared flows.
type principal struct {
	load         func(ctx context.Context, email string) (*account, error)
	markVerified func(ctx context.Context, id int64) error
	setPassword  func(ctx context.Context, id int64, hash string) error
	mustVerify   bool
}

func (s *Service) principals(kind auth.Kind) (principal, bool) {
	switch kind {
	case auth.KindMerchant:
		return principal{
			load: func(ctx context.Context, email string) (*account, error) {
				m, err := s.store.GetMerchantByEmail(ctx, email)
				if err != nil {
					return nil, err
				}
				return &account{id: m.ID, merchantID: m.ID, email: m.Email, hash: m.PasswordHash,
					verified: m.IsVerified, active: m.Status == models.MerchantActive}, nil
			},
			markVerified: s.store.MarkMerchantVerified,
			setPassword:  s.store.SetMerchantPassword,
			mustVerify:   s.security.RequireVerifiedMerchants,
		}, true
	case auth.KindCollaborator:
		return principal{
			load: func(ctx context.Context, email string) (*account, error) {
				c, err := s.store.GetCollaboratorByEmail(ctx, email)
				if err != nil {
					return nil, err
				}
				return &account{id: c.ID, merchantID: c.MerchantID, email: c.Email, hash: c.PasswordHash,
					role: c.Role, verified: c.IsVerified, active: true}, nil
			},
			markVerified: s.store.MarkCollaboratorVerified,
			setPassword:  s.store.SetCollaboratorPassword,
			mustVerify:   true,
		}, true
	case auth.KindSuperAdmin:
		return principal{
			load: func(ctx context.Context, email string) (*account, error) {
				a, err := s.store.GetSuperAdminByEmail(ctx, email)
				if err != nil {
					return nil, err
				}
				return &account{id: a.ID, email: a.Email, hash: a.PasswordHash, role: a.Role,
					verified: true, active: true}, nil
			},
		}, true
	case auth.KindAdminStaff:
		return principal{
			load: func(ctx context.Context, email string) (*account, error) {
				a, err := s.store.GetAdminStaffByEmail(ctx, email)
				if err != nil {
					return nil, err
				}
				return &account{id: a.ID, email: a.Email, hash: a.PasswordHash, role: a.RoleName,
					verified: true, active: a.Status == models.StaffActive}, nil
			},
		}, true
	}
	return principal{}, false
}

// Login checks credentials and issues a token. Bad email and bad password
// both yield auth.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, kind auth.Kind, email, password, ip string) (*Session, error) {
	p, ok := s.principals(kind)
	if !ok {
		return nil, ErrUnsupportedKind
	}
	if _, err := s.lockout.Check(kind, email); err != nil {
		metrics.RecordAuthAttempt(string(kind), "locked")
		s.loginFailed(ctx, kind, email, 0, ip, "locked")
		return nil, err
	}

	acct, err := p.load(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, s.rejectLogin(ctx, kind, email, 0, ip, "unknown email")
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if err := auth.CheckPassword(acct.hash, password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			logging.Ctx(ctx).Error().Err(err).Str("kind", string(kind)).Int64("id", acct.id).Msg("Stored password hash is unreadable")
		}
		return nil, s.rejectLogin(ctx, kind, email, acct.merchantID, ip, "wrong password")
	}

	if p.mustVerify && !acct.verified {
		metrics.RecordAuthAttempt(string(kind), "unverified")
		return nil, ErrNotVerified
	}
	if !acct.active {
		metrics.RecordAuthAttempt(string(kind), "inactive")
		s.loginFailed(ctx, kind, email, acct.merchantID, ip, "inactive")
		return nil, ErrAccountInactive
	}

	s.lockout.RecordSuccess(kind, email)
	if kind == auth.KindAdminStaff {
		if err := s.store.TouchAdminStaffLogin(ctx, acct.id); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Int64("staff_id", acct.id).Msg("Failed to record last login")
		}
	}

	pr := auth.Principal{ID: acct.id, Email: acct.email, Kind: kind, Role: acct.role}
	if kind == auth.KindCollaborator {
		pr.MerchantID = acct.merchantID
	}
	token, err := s.tokens.GenerateToken(pr)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuthAttempt(string(kind), "success")
	s.authLog.LoginSucceeded(string(kind), acct.email, ip)
	return &Session{Token: token, ExpiresAt: s.now().Add(s.tokens.TTL()), Principal: pr}, nil
}

func (s *Service) rejectLogin(ctx context.Context, kind auth.Kind, email string, merchantID int64, ip, reason string) error {
	locked, remaining := s.lockout.RecordFailure(kind, email)
	metrics.RecordAuthAttempt(string(kind), "failure")
	s.loginFailed(ctx, kind, email, merchantID, ip, reason)
	if locked {
		logging.Ctx(ctx).Warn().Str("kind", string(kind)).Str("email", logging.MaskEmail(email)).
			Dur("remaining", remaining).Msg("Login locked after repeated failures")
	}
	return auth.ErrInvalidCredentials
}

func (s *Service) loginFailed(ctx context.Context, kind auth.Kind, email string, merchantID int64, ip, reason string) {
	s.authLog.LoginFailed(string(kind), email, ip, reason)
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, events.TopicLoginFailed, events.LoginFailed{
		Kind:       string(kind),
		Email:      email,
		MerchantID: merchantID,
		Reason:     reason,
		IPAddress:  ip,
		At:         s.now().UTC(),
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Login failure event not published")
	}
}

func (s *Service) lookup(ctx context.Context, kind auth.Kind, email string) (principal, *account, error) {
	p, ok := s.principals(kind)
	if !ok || p.setPassword == nil {
		return principal{}, nil, ErrUnsupportedKind
	}
	acct, err := p.load(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return principal{}, nil, ErrEmailNotFound
	}
	if err != nil {
		return principal{}, nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return p, acct, nil
}

// OTPResult reports an issued code. Code is only set when codes are exposed.
type OTPResult struct {
	Code      string
	EmailSent bool
}

func (s *Service) sendCode(ctx context.Context, kind auth.Kind, purpose otp.Purpose, email string) (OTPResult, error) {
	code, err := s.otp.Issue(ctx, purpose, otp.Subject(string(kind), email))
	if err != nil {
		return OTPResult{}, err
	}
	res := OTPResult{}
	if s.exposeOTP {
		res.Code = code
	}
	if err := s.mailer.Send(ctx, mail.OTPMessage(email, code, s.otp.TTL())); err != nil {
		s.authLog.OTPIssued(string(kind), email, string(purpose), false)
		return res, err
	}
	s.authLog.OTPIssued(string(kind), email, string(purpose), true)
	res.EmailSent = true
	return res, nil
}

// ResendOTP mails a fresh verification code.
func (s *Service) ResendOTP(ctx context.Context, kind auth.Kind, email string) (OTPResult, error) {
	if _, _, err := s.lookup(ctx, kind, email); err != nil {
		return OTPResult{}, err
	}
	res, err := s.sendCode(ctx, kind, otp.PurposeVerifyEmail, email)
	if err != nil && !errors.Is(err, otp.ErrRateLimited) {
		return res, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return res, err
}

// ForgotPassword mails a password reset code.
func (s *Service) ForgotPassword(ctx context.Context, kind auth.Kind, email string) (OTPResult, error) {
	if _, _, err := s.lookup(ctx, kind, email); err != nil {
		return OTPResult{}, err
	}
	res, err := s.sendCode(ctx, kind, otp.PurposeResetPassword, email)
	if err != nil && !errors.Is(err, otp.ErrRateLimited) {
		return res, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return res, err
}

// VerifyOTP checks a code. A verify_email code marks the account verified; a
// reset_password code returns a reset token for ChangePassword.
func (s *Service) VerifyOTP(ctx context.Context, kind auth.Kind, email, code string, purpose otp.Purpose) (string, error) {
	if purpose == "" {
		purpose = otp.PurposeVerifyEmail
	}
	p, acct, err := s.lookup(ctx, kind, email)
	if err != nil {
		return "", err
	}
	subject := otp.Subject(string(kind), email)
	if err := s.otp.Verify(ctx, purpose, subject, code); err != nil {
		return "", err
	}

	if purpose == otp.PurposeResetPassword {
		return s.otp.IssueResetToken(ctx, subject)
	}
	if !acct.verified {
		if err := p.markVerified(ctx, acct.id); err != nil {
			return "", fmt.Errorf("mark verified: %w", err)
		}
	}
	return "", nil
}

// ChangePassword sets a new password using a reset token from VerifyOTP.
func (s *Service) ChangePassword(ctx context.Context, kind auth.Kind, email, resetToken, newPassword string) error {
	p, acct, err := s.lookup(ctx, kind, email)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.security.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.otp.ConsumeResetToken(ctx, resetToken, otp.Subject(string(kind), email)); err != nil {
		return err
	}
	if err := p.setPassword(ctx, acct.id, hash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	s.lockout.RecordSuccess(kind, email)
	s.authLog.PasswordChanged(string(kind), acct.email, "reset_token")
	return nil
}
