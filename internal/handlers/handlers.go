package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RobasAhmedShah/hmr-backend/configs"
	"github.com/RobasAhmedShah/hmr-backend/internal/errs"
	"github.com/RobasAhmedShah/hmr-backend/internal/httputil"
	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/RobasAhmedShah/hmr-backend/internal/organizations"
	"github.com/RobasAhmedShah/hmr-backend/internal/payments"
	"github.com/RobasAhmedShah/hmr-backend/internal/properties"
	"github.com/RobasAhmedShah/hmr-backend/internal/rewards"
	"github.com/RobasAhmedShah/hmr-backend/internal/settlement"
	"github.com/RobasAhmedShah/hmr-backend/internal/users"
	"github.com/RobasAhmedShah/hmr-backend/internal/wallets"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handlers struct {
	DB            *gorm.DB
	Users         *users.Service
	Wallets       *wallets.Service
	Properties    *properties.Service
	Organizations *organizations.Service
	Settlement    *settlement.Service
	Rewards       *rewards.Service
	Payments      *payments.Service
}

// writeServiceError maps the settlement error taxonomy onto HTTP codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidArgument):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrInsufficientInventory),
		errors.Is(err, errs.ErrInsufficientFunds),
		errors.Is(err, errs.ErrNoActiveInvestments):
		httputil.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrLockTimeout):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	default:
		logger.Log.Error("request failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func currentUserRef(r *http.Request) (string, bool) {
	id, ok := r.Context().Value("userID").(uint)
	if !ok {
		return "", false
	}
	return fmt.Sprint(id), true
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.Users.Register(r.Context(), users.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ref, ok := currentUserRef(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.Users.Get(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

type InvestRequest struct {
	InvestorRef string          `json:"investorRef"` // optional: defaults to the caller
	PropertyRef string          `json:"propertyRef"`
	Tokens      decimal.Decimal `json:"tokens"`
}

func (h *Handlers) Invest(w http.ResponseWriter, r *http.Request) {
	var req InvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	investorRef := req.InvestorRef
	if investorRef == "" {
		ref, ok := currentUserRef(r)
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		investorRef = ref
	}
	inv, err := h.Settlement.Settle(r.Context(), investorRef, req.PropertyRef, req.Tokens)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

type DistributeRequest struct {
	PropertyRef string          `json:"propertyRef"`
	TotalReturn decimal.Decimal `json:"totalReturn"`
}

func (h *Handlers) Distribute(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rws, err := h.Rewards.Distribute(r.Context(), req.PropertyRef, req.TotalReturn)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"rewards": rws,
		"count":   len(rws),
	})
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handlers) Deposit(w http.ResponseWriter, r *http.Request) {
	ref, ok := currentUserRef(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	txn, err := h.Wallets.Deposit(r.Context(), ref, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txn)
}

func (h *Handlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	ref, ok := currentUserRef(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	txn, err := h.Wallets.Withdraw(r.Context(), ref, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, txn)
}

func (h *Handlers) GetWallet(w http.ResponseWriter, r *http.Request) {
	ref, ok := currentUserRef(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	wallet, err := h.Wallets.ByUser(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, wallet)
}

func (h *Handlers) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var portfolio models.Portfolio
	if err := h.DB.Where("user_id = ?", userID).First(&portfolio).Error; err != nil {
		writeServiceError(w, fmt.Errorf("%w: portfolio", errs.ErrNotFound))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, portfolio)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var txns []models.Transaction
	if err := h.DB.Where("user_id = ?", userID).Order("id DESC").Find(&txns).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, txns)
}

func (h *Handlers) ListRewards(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var rws []models.Reward
	if err := h.DB.Where("user_id = ?", userID).Order("id DESC").Find(&rws).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rws)
}

type CreatePropertyRequest struct {
	OrganizationRef string          `json:"organizationRef"`
	Title           string          `json:"title"`
	Type            string          `json:"type"`
	City            string          `json:"city"`
	Country         string          `json:"country"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalTokens     decimal.Decimal `json:"totalTokens"`
	ExpectedROI     decimal.Decimal `json:"expectedROI"`
}

func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	property, err := h.Properties.Create(r.Context(), properties.CreateInput{
		OrganizationRef: req.OrganizationRef,
		Title:           req.Title,
		Type:            req.Type,
		City:            req.City,
		Country:         req.Country,
		TotalValue:      req.TotalValue,
		TotalTokens:     req.TotalTokens,
		ExpectedROI:     req.ExpectedROI,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, property)
}

func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.Properties.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, props)
}

func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.Properties.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

func (h *Handlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	org, err := h.Organizations.Create(r.Context(), req.Name, req.Description, req.Website)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, org)
}

func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Organizations.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, orgs)
}

func (h *Handlers) VerifyKyc(w http.ResponseWriter, r *http.Request) {
	kyc, err := h.Users.VerifyKyc(r.Context(), chi.URLParam(r, "ref"), "admin")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, kyc)
}

type CreatePaymentMethodRequest struct {
	Type     string `json:"type"`
	Provider string `json:"provider"`
}

func (h *Handlers) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	ref, ok := currentUserRef(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req CreatePaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pm, err := h.Payments.Create(r.Context(), ref, req.Type, req.Provider)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pm)
}

func (h *Handlers) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	ref, ok := currentUserRef(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	pms, err := h.Payments.ByUser(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pms)
}
