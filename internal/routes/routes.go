package routes

import (
	"net/http"

	"github.com/RobasAhmedShah/hmr-backend/internal/handlers"
	appmw "github.com/RobasAhmedShah/hmr-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(h *handlers.Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.With(appmw.Authenticated).Get("/auth/me", h.Me)

	r.Get("/properties", h.ListProperties)
	r.Get("/properties/{ref}", h.GetProperty)
	r.With(appmw.Authenticated).Post("/properties", h.CreateProperty)

	r.Get("/organizations", h.ListOrganizations)
	r.With(appmw.Authenticated).Post("/organizations", h.CreateOrganization)

	r.With(appmw.Authenticated).Post("/investments", h.Invest)
	r.With(appmw.Authenticated).Post("/rewards/distribute", h.Distribute)
	r.With(appmw.Authenticated).Get("/rewards", h.ListRewards)

	r.With(appmw.Authenticated).Get("/wallet", h.GetWallet)
	r.With(appmw.Authenticated).Post("/wallet/deposit", h.Deposit)
	r.With(appmw.Authenticated).Post("/wallet/withdraw", h.Withdraw)

	r.With(appmw.Authenticated).Get("/portfolio", h.GetPortfolio)
	r.With(appmw.Authenticated).Get("/transactions", h.ListTransactions)

	r.With(appmw.Authenticated).Post("/kyc/{ref}/verify", h.VerifyKyc)

	r.With(appmw.Authenticated).Post("/payment-methods", h.CreatePaymentMethod)
	r.With(appmw.Authenticated).Get("/payment-methods", h.ListPaymentMethods)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
