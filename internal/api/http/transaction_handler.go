package http

import (
	"net/http"

	"drc-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// TransactionHandler handles the checkout and return endpoints
type TransactionHandler struct {
	txnSvc  service.TransactionService
	scanSvc service.ScanService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txnSvc service.TransactionService, scanSvc service.ScanService) *TransactionHandler {
	return &TransactionHandler{txnSvc: txnSvc, scanSvc: scanSvc}
}

type beginCheckoutRequest struct {
	UserNetID    string `json:"user_net_id"`
	LocationCode string `json:"location_code"`
}

// HandleBeginCheckout opens a pending checkout after the user scan
func (h *TransactionHandler) HandleBeginCheckout(w http.ResponseWriter, r *http.Request) {
	var req beginCheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.UserNetID == "" || req.LocationCode == "" {
		badRequest(w, "user_net_id and location_code are required")
		return
	}

	pending, err := h.txnSvc.BeginCheckout(r.Context(), req.UserNetID, req.LocationCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pending)
}

type completeCheckoutRequest struct {
	ContainerID string `json:"container_id"`
}

// HandleCompleteCheckout commits a pending checkout with the container scan
func (h *TransactionHandler) HandleCompleteCheckout(w http.ResponseWriter, r *http.Request) {
	pendingID, err := uuid.Parse(mux.Vars(r)["pendingId"])
	if err != nil {
		badRequest(w, "invalid pending checkout id")
		return
	}
	var req completeCheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.ContainerID == "" {
		badRequest(w, "container_id is required")
		return
	}

	txn, err := h.txnSvc.CompleteCheckout(r.Context(), pendingID, req.ContainerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

// HandleAbandonCheckout discards a pending checkout
func (h *TransactionHandler) HandleAbandonCheckout(w http.ResponseWriter, r *http.Request) {
	pendingID, err := uuid.Parse(mux.Vars(r)["pendingId"])
	if err != nil {
		badRequest(w, "invalid pending checkout id")
		return
	}
	if err := h.txnSvc.AbandonCheckout(r.Context(), pendingID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type returnRequest struct {
	ContainerID string `json:"container_id"`
}

// HandleReturn closes the open transaction for a container
func (h *TransactionHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.ContainerID == "" {
		badRequest(w, "container_id is required")
		return
	}

	txn, err := h.txnSvc.CompleteReturn(r.Context(), req.ContainerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// RegisterTransactionRoutes registers checkout and return endpoints
func RegisterTransactionRoutes(router *mux.Router, h *TransactionHandler) {
	router.HandleFunc("/api/v1/checkouts", h.HandleBeginCheckout).Methods("POST")
	router.HandleFunc("/api/v1/checkouts/{pendingId}/complete", h.HandleCompleteCheckout).Methods("POST")
	router.HandleFunc("/api/v1/checkouts/{pendingId}", h.HandleAbandonCheckout).Methods("DELETE")
	router.HandleFunc("/api/v1/returns", h.HandleReturn).Methods("POST")
}
