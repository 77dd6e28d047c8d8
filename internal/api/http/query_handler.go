package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rental-escrow-backend/internal/domain"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/service"
)

// QueryHandler serves the read-only side of the market over HTTP.
type QueryHandler struct {
	listings service.ListingService
	rentals  service.RentalService
	admin    service.AdminService
	ledger   service.LedgerService
}

func NewQueryHandler(listings service.ListingService, rentals service.RentalService, admin service.AdminService, ledger service.LedgerService) *QueryHandler {
	return &QueryHandler{
		listings: listings,
		rentals:  rentals,
		admin:    admin,
		ledger:   ledger,
	}
}

type errorResponse struct {
	Code  uint32 `json:"code,omitempty"`
	Error string `json:"error"`
}

var httpStatus = map[domain.ErrorCode]int{
	domain.CodeOwnerOnly:           http.StatusForbidden,
	domain.CodeUnauthorized:        http.StatusForbidden,
	domain.CodeNotFound:            http.StatusNotFound,
	domain.CodeInvalidAmount:       http.StatusBadRequest,
	domain.CodeInvalidDuration:     http.StatusBadRequest,
	domain.CodeAlreadyListed:       http.StatusConflict,
	domain.CodeNotAvailable:        http.StatusConflict,
	domain.CodeRentalActive:        http.StatusConflict,
	domain.CodeRentalNotExpired:    http.StatusConflict,
	domain.CodeInsufficientPayment: http.StatusPaymentRequired,
	domain.CodeTransferFailed:      http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code, ok := domain.CodeOf(err)
	if !ok {
		logger.Error("Query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	status, found := httpStatus[code]
	if !found {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{Code: uint32(code), Error: err.Error()})
}

func uintVar(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return v, true
}

func (h *QueryHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id")
	if !ok {
		return
	}
	l, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *QueryHandler) HandleGetListingByAsset(w http.ResponseWriter, r *http.Request) {
	token, ok := uintVar(w, r, "token")
	if !ok {
		return
	}
	l, err := h.listings.GetListingByAsset(r.Context(), domain.AssetID{Contract: mux.Vars(r)["contract"], TokenID: token})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *QueryHandler) HandleGetActiveRental(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id")
	if !ok {
		return
	}
	rt, err := h.rentals.GetActiveRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	expired, err := h.rentals.IsRentalExpired(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rental": rt, "expired": expired})
}

// HandleGetQuote expects the duration as the "duration" query parameter.
func (h *QueryHandler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id")
	if !ok {
		return
	}
	duration, err := strconv.ParseUint(r.URL.Query().Get("duration"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid duration"})
		return
	}
	q, err := h.rentals.GetRentalQuote(r.Context(), id, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QueryHandler) HandleListExpired(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ListExpiredRentals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.ActiveRental{}
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *QueryHandler) HandleGetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.GetUserStats(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *QueryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.rentals.GetRentalHistory(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *QueryHandler) HandleGetPlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetPlatformStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterQueryRoutes registers the read-only market endpoints, health and metrics
func RegisterQueryRoutes(router *mux.Router, h *QueryHandler) {
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/listings/{id:[0-9]+}", h.HandleGetListing).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}/rental", h.HandleGetActiveRental).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}/quote", h.HandleGetQuote).Methods("GET")
	api.HandleFunc("/assets/{contract}/{token:[0-9]+}", h.HandleGetListingByAsset).Methods("GET")
	api.HandleFunc("/rentals/expired", h.HandleListExpired).Methods("GET")
	api.HandleFunc("/users/{user}/stats", h.HandleGetUserStats).Methods("GET")
	api.HandleFunc("/users/{user}/history", h.HandleGetHistory).Methods("GET")
	api.HandleFunc("/platform/stats", h.HandleGetPlatformStats).Methods("GET")
}
