// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/config"
	"github.com/tomtom215/alphaweb/internal/events"
	"github.com/tomtom215/alphaweb/internal/mail"
	"github.com/tomtom215/alphaweb/internal/models"
	"github.com/tomtom215/alphaweb/internal/otp"
	"github.com/tomtom215/alphaweb/internal/store"
	"github.com/tomtom215/alphaweb/internal/testinfra"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	last   map[string]interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		p.last = map[string]interface{}{}
	}
	p.topics = append(p.topics, topic)
	p.last[topic] = payload
	return nil
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, mail.Message) error {
	return errors.New("smtp: connection refused")
}

type fixture struct {
	svc    *Service
	store  *store.Store
	mailer *mail.LogMailer
	events *recordingPublisher
	tokens *auth.JWTManager
}

func newFixture(t *testing.T, security config.SecurityConfig) *fixture {
	t.Helper()
	security.JWTSecret = "test-secret-that-is-long-enough-for-hs256"
	security.BcryptCost = 4
	tokens, err := auth.NewJWTManager(&security)
	if err != nil {
		t.Fatal(err)
	}
	st := store.New(testinfra.NewDuckDB(t))
	f := &fixture{
		store:  st,
		mailer: mail.NewLogMailer(),
		events: &recordingPublisher{},
		tokens: tokens,
	}
	f.svc = New(Deps{
		Store:     st,
		OTP:       otp.NewService(otp.NewMemoryStore(), config.OTPConfig{IssueLimit: 10}),
		Mailer:    f.mailer,
		Tokens:    tokens,
		Events:    f.events,
		Security:  security,
		ExposeOTP: true,
	})
	return f
}

func (f *fixture) signupMerchant(t *testing.T, email string) *SignupResult {
	t.Helper()
	res, err := f.svc.SignupMerchant(context.Background(), MerchantSignup{
		BusinessName: "Ada Stores",
		Phone:        "08030000000",
		Email:        email,
		Currency:     "ngn",
		Password:     "correct-horse",
	})
	if err != nil {
		t.Fatalf("SignupMerchant() error = %v", err)
	}
	return res
}

func TestMerchantSignupAndVerify(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{RequireVerifiedMerchants: true})
	ctx := context.Background()

	res := f.signupMerchant(t, "Owner@Shop.ng")
	if res.ID == 0 || !res.EmailSent || len(res.Code) != 6 {
		t.Fatalf("result = %+v", res)
	}
	msg, ok := f.mailer.Last("owner@shop.ng")
	if !ok || msg.Template != mail.TemplateOTP {
		t.Fatalf("otp mail = %+v, %v", msg, ok)
	}
	if ev, ok := f.events.last[events.TopicMerchantRegistered].(events.MerchantRegistered); !ok || ev.MerchantID != res.ID {
		t.Errorf("merchant.registered = %+v", f.events.last[events.TopicMerchantRegistered])
	}
	m, _ := f.store.GetMerchant(ctx, res.ID)
	if m.Currency != "NGN" || m.IsVerified || m.PasswordHash == "correct-horse" {
		t.Errorf("stored merchant = %+v", m)
	}

	if _, err := f.svc.SignupMerchant(ctx, MerchantSignup{Email: "owner@shop.ng", Password: "another-pass"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate signup = %v, want ErrEmailTaken", err)
	}
	if _, err := f.svc.SignupMerchant(ctx, MerchantSignup{Email: "short@shop.ng", Password: "abc"}); !errors.Is(err, auth.ErrPasswordTooShort) {
		t.Errorf("short password = %v", err)
	}

	if _, err := f.svc.Login(ctx, auth.KindMerchant, "owner@shop.ng", "correct-horse", "10.0.0.1"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("unverified login = %v, want ErrNotVerified", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, auth.KindMerchant, "owner@shop.ng", "000000x", ""); !errors.Is(err, otp.ErrInvalidCode) {
		t.Errorf("wrong code = %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, auth.KindMerchant, "owner@shop.ng", res.Code, ""); err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}

	sess, err := f.svc.Login(ctx, auth.KindMerchant, "OWNER@shop.ng", "correct-horse", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := f.tokens.ValidateToken(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Kind != auth.KindMerchant || claims.ID != res.ID {
		t.Errorf("claims = %+v", claims)
	}
	if scope, ok := auth.PrincipalFromClaims(claims).MerchantScope(); !ok || scope != res.ID {
		t.Errorf("MerchantScope() = %d, %v", scope, ok)
	}
}

func TestUnverifiedMerchantLoginAllowedByDefault(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{})
	f.signupMerchant(t, "dev@shop.ng")
	if _, err := f.svc.Login(context.Background(), auth.KindMerchant, "dev@shop.ng", "correct-horse", ""); err != nil {
		t.Errorf("Login() error = %v", err)
	}
}

func TestSignupSurvivesMailFailure(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{})
	f.svc.mailer = failingMailer{}

	res := f.signupMerchant(t, "nomail@shop.ng")
	if res.ID == 0 || res.EmailSent || res.Code == "" {
		t.Errorf("result = %+v", res)
	}
	if _, err := f.svc.ResendOTP(context.Background(), auth.KindMerchant, "nomail@shop.ng"); !errors.Is(err, ErrMailDelivery) {
		t.Errorf("ResendOTP() = %v, want ErrMailDelivery", err)
	}
}

func TestLoginFailuresAndLockout(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{})
	ctx := context.Background()
	f.signupMerchant(t, "lock@shop.ng")

	if _, err := f.svc.Login(ctx, auth.KindMerchant, "ghost@shop.ng", "whatever-pass", "1.2.3.4"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("unknown email = %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.svc.Login(ctx, auth.KindMerchant, "lock@shop.ng", "wrong-pass", "1.2.3.4"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Fatalf("attempt %d = %v", i+1, err)
		}
	}
	if _, err := f.svc.Login(ctx, auth.KindMerchant, "lock@shop.ng", "correct-horse", "1.2.3.4"); !errors.Is(err, auth.ErrAccountLocked) {
		t.Errorf("locked login = %v, want ErrAccountLocked", err)
	}

	ev, ok := f.events.last[events.TopicLoginFailed].(events.LoginFailed)
	if !ok || ev.Reason != "locked" || ev.IPAddress != "1.2.3.4" || ev.MerchantID != 0 {
		t.Errorf("last login failure = %+v", ev)
	}
	failures := 0
	for _, topic := range f.events.topics {
		if topic == events.TopicLoginFailed {
			failures++
		}
	}
	if failures != 7 {
		t.Errorf("login_failed events = %d, want 7", failures)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{})
	ctx := context.Background()
	f.signupMerchant(t, "reset@shop.ng")

	if _, err := f.svc.ForgotPassword(ctx, auth.KindMerchant, "nobody@shop.ng"); !errors.Is(err, ErrEmailNotFound) {
		t.Errorf("unknown email = %v, want ErrEmailNotFound", err)
	}
	sent, err := f.svc.ForgotPassword(ctx, auth.KindMerchant, "reset@shop.ng")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.ChangePassword(ctx, auth.KindMerchant, "reset@shop.ng", "", "brand-new-pass"); !errors.Is(err, otp.ErrInvalidResetToken) {
		t.Errorf("change without token = %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, auth.KindMerchant, "reset@shop.ng", sent.Code, otp.PurposeVerifyEmail); !errors.Is(err, otp.ErrInvalidCode) {
		t.Errorf("reset code used for verification = %v", err)
	}
	token, err := f.svc.VerifyOTP(ctx, auth.KindMerchant, "reset@shop.ng", sent.Code, otp.PurposeResetPassword)
	if err != nil || token == "" {
		t.Fatalf("VerifyOTP(reset) = %q, %v", token, err)
	}
	if err := f.svc.ChangePassword(ctx, auth.KindMerchant, "reset@shop.ng", token, "short"); !errors.Is(err, auth.ErrPasswordTooShort) {
		t.Errorf("short password = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, auth.KindMerchant, "reset@shop.ng", token, "brand-new-pass"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, auth.KindMerchant, "reset@shop.ng", token, "another-pass1"); !errors.Is(err, otp.ErrInvalidResetToken) {
		t.Errorf("token reuse = %v", err)
	}

	if _, err := f.svc.Login(ctx, auth.KindMerchant, "reset@shop.ng", "correct-horse", ""); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("old password = %v", err)
	}
	if _, err := f.svc.Login(ctx, auth.KindMerchant, "reset@shop.ng", "brand-new-pass", ""); err != nil {
		t.Errorf("new password = %v", err)
	}
}

func TestCollaboratorFlow(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{})
	ctx := context.Background()
	merchant := f.signupMerchant(t, "boss@shop.ng")

	in := CollaboratorSignup{MerchantID: 999, FullName: "Tolu", Email: "tolu@shop.ng", Role: "Manager", Password: "team-pass-1"}
	if _, err := f.svc.SignupCollaborator(ctx, in); !errors.Is(err, ErrMerchantNotFound) {
		t.Fatalf("unknown merchant = %v", err)
	}
	in.MerchantID = merchant.ID
	res, err := f.svc.SignupCollaborator(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SignupCollaborator(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate = %v", err)
	}

	if _, err := f.svc.Login(ctx, auth.KindCollaborator, "tolu@shop.ng", "team-pass-1", ""); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("unverified collaborator = %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, auth.KindCollaborator, "tolu@shop.ng", res.Code, ""); err != nil {
		t.Fatal(err)
	}
	sess, err := f.svc.Login(ctx, auth.KindCollaborator, "tolu@shop.ng", "team-pass-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Principal.MerchantID != merchant.ID || sess.Principal.Role != "Manager" || sess.Principal.ID != res.ID {
		t.Errorf("principal = %+v", sess.Principal)
	}
	if sess.ExpiresAt.Before(time.Now().Add(23 * time.Hour)) {
		t.Errorf("ExpiresAt = %v", sess.ExpiresAt)
	}
}

func TestAdminLogins(t *testing.T) {
	f := newFixture(t, config.SecurityConfig{})
	ctx := context.Background()
	hash, err := auth.HashPassword("root-password", 4)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.store.CreateSuperAdmin(ctx, &models.SuperAdmin{Name: "Root", Email: "root@alpha.ng", PasswordHash: hash}); err != nil {
		t.Fatal(err)
	}
	sess, err := f.svc.Login(ctx, auth.KindSuperAdmin, "root@alpha.ng", "root-password", "")
	if err != nil {
		t.Fatalf("super admin login = %v", err)
	}
	if sess.Principal.Kind != auth.KindSuperAdmin || sess.Principal.MerchantID != 0 {
		t.Errorf("principal = %+v", sess.Principal)
	}
	if _, err := f.svc.ForgotPassword(ctx, auth.KindSuperAdmin, "root@alpha.ng"); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("admin reset = %v, want ErrUnsupportedKind", err)
	}

	role := &models.AdminRole{Name: "Support", Permissions: models.StringList{"view_merchants"}}
	if err := f.store.CreateAdminRole(ctx, role); err != nil {
		t.Fatal(err)
	}
	staff := &models.AdminStaff{RoleID: role.ID, Name: "Kemi", Email: "kemi@alpha.ng", PasswordHash: hash}
	if err := f.store.CreateAdminStaff(ctx, staff); err != nil {
		t.Fatal(err)
	}
	sess, err = f.svc.Login(ctx, auth.KindAdminStaff, "kemi@alpha.ng", "root-password", "")
	if err != nil {
		t.Fatalf("staff login = %v", err)
	}
	if sess.Principal.Role != "Support" {
		t.Errorf("staff role = %q", sess.Principal.Role)
	}
	got, _ := f.store.GetAdminStaff(ctx, staff.ID)
	if got.LastLogin == nil {
		t.Error("last_login not recorded")
	}

	if err := f.store.SetAdminStaffStatus(ctx, staff.ID, models.StaffSuspended); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Login(ctx, auth.KindAdminStaff, "kemi@alpha.ng", "root-password", ""); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("suspended staff = %v, want ErrAccountInactive", err)
	}
}
