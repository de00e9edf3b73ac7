// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/alphaweb/internal/auth"
	"github.com/tomtom215/alphaweb/internal/authz"
	"github.com/tomtom215/alphaweb/internal/middleware"
	"github.com/tomtom215/alphaweb/internal/websocket"
)

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	mw := router.chiMiddleware
	perm := router.enforcer.RequirePermission

	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)
	if h.perf != nil {
		r.Use(h.perf.Middleware)
	}
	r.Use(middleware.Compression)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	if h.cfg == nil || h.cfg.Metrics.Enabled {
		path := "/metrics"
		if h.cfg != nil && h.cfg.Metrics.Path != "" {
			path = h.cfg.Metrics.Path
		}
		r.Handle(path, promhttp.Handler())
	}

	if h.cfg != nil && h.cfg.Server.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			router.authRoutes(r)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.middleware.Authenticate)
			r.Use(auth.RequireKind(auth.KindSuperAdmin, auth.KindAdminStaff))
			r.Use(mw.RateLimitAPI())
			r.Use(mw.RateLimitWrite())
			router.adminRoutes(r, perm)
		})

		r.Route("/merchant", func(r chi.Router) {
			r.Use(router.middleware.Authenticate)
			r.Use(auth.RequireKind(auth.KindMerchant, auth.KindCollaborator))
			r.Use(auth.RequireMerchantScope)
			r.Use(mw.RateLimitAPI())
			r.Use(mw.RateLimitWrite())
			router.merchantRoutes(r)
		})
	})

	return r
}

func (router *Router) authRoutes(r chi.Router) {
	h := router.handler
	mw := router.chiMiddleware

	for _, kind := range []auth.Kind{auth.KindMerchant, auth.KindCollaborator} {
		prefix := "/" + string(kind)
		r.With(mw.RateLimitOTP()).Post(prefix+"/signup", h.signup(kind))
		r.With(mw.RateLimitLogin()).Post(prefix+"/login", h.login(kind))
		r.With(mw.RateLimitOTP()).Post(prefix+"/forgot-password", h.forgotPassword(kind))
		r.With(mw.RateLimitOTP()).Post(prefix+"/resend-otp", h.resendOTP(kind))
		r.With(mw.RateLimitOTP()).Post(prefix+"/verify-otp", h.verifyOTP(kind))
		r.With(mw.RateLimitOTP()).Post(prefix+"/change-password", h.changePassword(kind))
	}
	r.With(mw.RateLimitLogin()).Post("/admin/login", h.login(auth.KindSuperAdmin))
	r.With(mw.RateLimitLogin()).Post("/staff/login", h.login(auth.KindAdminStaff))

	r.With(router.middleware.Authenticate).Get("/me", h.Me)
}

func (router *Router) adminRoutes(r chi.Router, perm func(string) func(http.Handler) http.Handler) {
	h := router.handler

	r.With(perm(authz.PermViewDashboard)).Get("/stats", h.AdminStats)
	r.With(perm(authz.PermViewAnalytics)).Get("/merchant-stats", h.AdminMerchantStats)
	r.With(perm(authz.PermViewActivities)).Get("/activities", h.AdminActivities)

	r.Route("/merchants", func(r chi.Router) {
		r.With(perm(authz.PermViewMerchants)).Get("/", h.AdminListMerchants)
		r.With(perm(authz.PermCreateMerchant)).Post("/", h.AdminCreateMerchant)
		r.With(perm(authz.PermViewMerchants)).Get("/{id}", h.AdminGetMerchant)
		r.With(perm(authz.PermEditMerchant)).Put("/{id}", h.AdminUpdateMerchant)
		r.With(perm(authz.PermDeleteMerchant)).Delete("/{id}", h.AdminDeleteMerchant)
		r.With(perm(authz.PermSuspendMerchant)).Patch("/{id}/status", h.AdminSetMerchantStatus)
		r.With(perm(authz.PermApproveMerchant)).Post("/{id}/approve", h.AdminApproveMerchant)
		r.With(perm(authz.PermEditMerchant)).Post("/{id}/reset-password", h.AdminResetMerchantPassword)
		r.With(perm(authz.PermViewTransactions)).Get("/{id}/transactions", h.AdminMerchantTransactions)
		r.With(perm(authz.PermViewPlans)).Get("/{id}/subscription", h.AdminMerchantSubscription)
		r.With(perm(authz.PermViewLogs)).Get("/{id}/logs", h.AdminMerchantLogs)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.With(perm(authz.PermViewTransactions)).Get("/", h.AdminListTransactions)
		r.With(perm(authz.PermViewTransactions)).Patch("/{id}/status", h.AdminSetTransactionStatus)
	})

	r.Route("/plans", func(r chi.Router) {
		r.With(perm(authz.PermViewPlans)).Get("/", h.AdminListPlans)
		r.With(perm(authz.PermCreatePlan)).Post("/", h.AdminCreatePlan)
		r.With(perm(authz.PermViewPlans)).Get("/{id}", h.AdminGetPlan)
		r.With(perm(authz.PermEditPlan)).Put("/{id}", h.AdminUpdatePlan)
		r.With(perm(authz.PermDeletePlan)).Delete("/{id}", h.AdminDeletePlan)
	})

	r.With(perm(authz.PermViewRoles)).Get("/permissions", h.AdminPermissions)
	r.Route("/roles", func(r chi.Router) {
		r.With(perm(authz.PermViewRoles)).Get("/", h.AdminListRoles)
		r.With(perm(authz.PermCreateRole)).Post("/", h.AdminCreateRole)
		r.With(perm(authz.PermViewRoles)).Get("/{id}", h.AdminGetRole)
		r.With(perm(authz.PermEditRole)).Put("/{id}", h.AdminUpdateRole)
		r.With(perm(authz.PermDeleteRole)).Delete("/{id}", h.AdminDeleteRole)
	})

	r.Route("/staff", func(r chi.Router) {
		r.With(perm(authz.PermViewStaff)).Get("/", h.AdminListStaff)
		r.With(perm(authz.PermCreateStaff)).Post("/", h.AdminCreateStaff)
		r.With(perm(authz.PermViewStaff)).Get("/{id}", h.AdminGetStaff)
		r.With(perm(authz.PermEditStaff)).Put("/{id}", h.AdminUpdateStaff)
		r.With(perm(authz.PermEditStaff)).Patch("/{id}/status", h.AdminSetStaffStatus)
		r.With(perm(authz.PermDeleteStaff)).Delete("/{id}", h.AdminDeactivateStaff)
	})

	r.Route("/logs", func(r chi.Router) {
		r.Use(perm(authz.PermViewLogs))
		r.Get("/", h.AdminLogs)
		r.Get("/staff/{staffId}", h.AdminLogsByStaff)
		r.Get("/entity/{entity}/{id}", h.AdminLogsByEntity)
	})

	r.Route("/support", func(r chi.Router) {
		r.Use(perm(authz.PermManageNotifications))
		r.Get("/tickets", h.AdminListTickets)
		r.Get("/tickets/stats", h.AdminTicketStats)
		r.Get("/tickets/{ref}", h.AdminGetTicket)
		r.Post("/tickets/{ref}/reply", h.AdminReplyTicket)
		r.Patch("/tickets/{ref}/status", h.AdminSetTicketStatus)
		r.Get("/faqs", h.AdminListFAQs)
		r.Post("/faqs", h.AdminCreateFAQ)
		r.Delete("/faqs/{id}", h.AdminDeleteFAQ)
		r.Get("/announcements", h.AdminListAnnouncements)
		r.Post("/announcements", h.AdminCreateAnnouncement)
		r.Delete("/announcements/{id}", h.AdminDeleteAnnouncement)
	})

	r.Route("/system", func(r chi.Router) {
		r.Use(perm(authz.PermManageSettings))
		r.Get("/performance", h.AdminPerformance)
		r.Get("/jobs", h.AdminJobs)
		r.Post("/jobs/{name}/run", h.AdminRunJob)
	})

	if h.hub != nil {
		var origins []string
		if h.cfg != nil {
			origins = h.cfg.Server.CORSOrigins
		}
		r.With(perm(authz.PermViewActivities)).Get("/ws", websocket.Handler(h.hub, origins))
	}
}

func (router *Router) merchantRoutes(r chi.Router) {
	h := router.handler

	r.Get("/profile", h.MerchantProfile)
	r.Put("/profile", h.UpdateMerchantProfile)
	r.Get("/subscription", h.MerchantSubscription)
	r.Get("/collaborators", h.ListCollaborators)

	r.Route("/agents", func(r chi.Router) {
		r.Get("/", h.ListAgents)
		r.Post("/", h.CreateAgent)
		r.Get("/{id}", h.GetAgent)
		r.Put("/{id}", h.UpdateAgent)
		r.Patch("/{id}/status", h.SetAgentStatus)
	})

	r.Route("/branches", func(r chi.Router) {
		r.Get("/", h.ListBranches)
		r.Post("/", h.CreateBranch)
		r.Get("/{id}", h.GetBranch)
		r.Put("/{id}", h.UpdateBranch)
		r.Delete("/{id}", h.DeleteBranch)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/{id}", h.GetCustomer)
		r.Put("/{id}", h.UpdateCustomer)
	})

	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.ListRoles)
		r.Post("/", h.CreateRole)
		r.Get("/{id}", h.GetRole)
		r.Put("/{id}", h.UpdateRole)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Get("/", h.ListStaff)
		r.Post("/", h.CreateStaff)
		r.Get("/{id}", h.GetStaff)
		r.Put("/{id}", h.UpdateStaff)
	})

	r.Route("/charges", func(r chi.Router) {
		r.Get("/", h.ListCharges)
		r.Post("/", h.CreateCharge)
		r.Post("/assign", h.AssignCharge)
		r.Get("/history", h.ChargeHistory)
		r.Patch("/assignments/{id}/status", h.SetChargeAssignmentStatus)
		r.Get("/{id}", h.GetCharge)
		r.Put("/{id}", h.UpdateCharge)
		r.Delete("/{id}", h.DeleteCharge)
	})

	r.Route("/packages", func(r chi.Router) {
		r.Get("/", h.ListPackages)
		r.Post("/", h.CreatePackage)
		r.Get("/active", h.ActivePackages)
		r.Get("/{id}", h.GetPackage)
		r.Put("/{id}", h.UpdatePackage)
		r.Delete("/{id}", h.DeletePackage)
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", h.ListCollections)
		r.Post("/", h.CreateCollection)
		r.Post("/bulk", h.BulkCreateCollections)
		r.Get("/overdue", h.OverdueCollections)
		r.Get("/status/{status}", h.CollectionsByStatus)
		r.Get("/{id}", h.GetCollection)
		r.Put("/{id}", h.UpdateCollection)
		r.Post("/{id}/collect", h.CollectCollection)
		r.Delete("/{id}", h.DeleteCollection)
	})

	r.Route("/remittances", func(r chi.Router) {
		r.Get("/", h.ListRemittances)
		r.Post("/", h.CreateRemittance)
		r.Get("/{id}", h.GetRemittance)
		r.Put("/{id}", h.UpdateRemittance)
		r.Post("/{id}/approve", h.ApproveRemittance)
		r.Delete("/{id}", h.DeleteRemittance)
	})

	r.Route("/loan-applications", func(r chi.Router) {
		r.Get("/", h.ListLoanApplications)
		r.Post("/", h.CreateLoanApplication)
		r.Get("/{id}", h.GetLoanApplication)
		r.Put("/{id}", h.UpdateLoanApplication)
		r.Patch("/{id}/status", h.SetLoanApplicationStatus)
		r.Delete("/{id}", h.DeleteLoanApplication)
	})

	r.Route("/loans", func(r chi.Router) {
		r.Get("/", h.ListLoans)
		r.Post("/", h.CreateLoan)
		r.Get("/stats/summary", h.LoanStats)
		r.Get("/{id}", h.GetLoan)
		r.Put("/{id}", h.UpdateLoan)
		r.Patch("/{id}/status", h.SetLoanStatus)
		r.Delete("/{id}", h.DeleteLoan)
	})

	r.Route("/repayments", func(r chi.Router) {
		r.Get("/", h.ListRepayments)
		r.Post("/", h.CreateRepayment)
		r.Get("/stats/summary", h.RepaymentStats)
		r.Get("/{id}", h.GetRepayment)
		r.Put("/{id}", h.UpdateRepayment)
		r.Patch("/{id}/status", h.SetRepaymentStatus)
		r.Delete("/{id}", h.DeleteRepayment)
	})

	r.Route("/investments", func(r chi.Router) {
		r.Get("/", h.ListInvestments)
		r.Post("/", h.CreateInvestment)
		r.Get("/{id}", h.GetInvestment)
		r.Put("/{id}", h.UpdateInvestment)
		r.Delete("/{id}", h.DeleteInvestment)
	})

	r.Route("/investment-applications", func(r chi.Router) {
		r.Get("/", h.ListInvestmentApplications)
		r.Post("/", h.CreateInvestmentApplication)
		r.Get("/{id}", h.GetInvestmentApplication)
		r.Put("/{id}", h.UpdateInvestmentApplication)
		r.Patch("/{id}/status", h.SetInvestmentApplicationStatus)
		r.Delete("/{id}", h.DeleteInvestmentApplication)
	})

	r.Route("/investment-transactions", func(r chi.Router) {
		r.Get("/", h.ListInvestmentTransactions)
		r.Post("/", h.CreateInvestmentTransaction)
		r.Get("/{id}", h.GetInvestmentTransaction)
		r.Put("/{id}", h.UpdateInvestmentTransaction)
		r.Delete("/{id}", h.DeleteInvestmentTransaction)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.ListTransactions)
		r.Post("/", h.CreateTransaction)
		r.Get("/{id}", h.GetTransaction)
	})

	r.Route("/wallet", func(r chi.Router) {
		r.Get("/balance", h.WalletBalance)
		r.Get("/stats", h.WalletStats)
		r.Post("/transfer", h.WalletTransfer)
		r.Get("/transactions", h.ListWalletTransactions)
		r.Post("/transactions", h.CreateWalletTransaction)
		r.Get("/transactions/{id}", h.GetWalletTransaction)
		r.Patch("/transactions/{id}/status", h.SetWalletTransactionStatus)
	})

	r.Route("/customer-wallets", func(r chi.Router) {
		r.Get("/", h.ListCustomerWallets)
		r.Post("/", h.CreateCustomerWallet)
		r.Get("/stats/summary", h.CustomerWalletStats)
		r.Get("/{id}", h.GetCustomerWallet)
		r.Put("/{id}", h.UpdateCustomerWallet)
		r.Patch("/{id}/status", h.SetCustomerWalletStatus)
		r.Delete("/{id}", h.CloseCustomerWallet)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.DashboardStats)
		r.Get("/transaction-stats", h.DashboardTransactionStats)
		r.Get("/agent-customer-stats", h.DashboardAgentCustomerStats)
	})

	r.Route("/support", func(r chi.Router) {
		r.Get("/tickets", h.MerchantListTickets)
		r.Post("/tickets", h.MerchantCreateTicket)
		r.Get("/tickets/{ref}", h.MerchantGetTicket)
		r.Post("/tickets/{ref}/messages", h.MerchantReplyTicket)
		r.Get("/faqs", h.MerchantFAQs)
		r.Get("/announcements", h.MerchantAnnouncements)
	})
}
