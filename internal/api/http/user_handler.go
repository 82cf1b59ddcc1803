package http

import (
	"net/http"

	"drc-backend/internal/codec"
	"drc-backend/internal/domain"
	"drc-backend/internal/service"

	"github.com/gorilla/mux"
)

// UserHandler handles per-user endpoints: impact, history, notifications
type UserHandler struct {
	txnSvc       service.TransactionService
	impactSvc    service.ImpactService
	inventorySvc service.InventoryService
	noteSvc      service.NotificationService
}

// NewUserHandler creates a new user handler
func NewUserHandler(txnSvc service.TransactionService, impactSvc service.ImpactService, inventorySvc service.InventoryService, noteSvc service.NotificationService) *UserHandler {
	return &UserHandler{txnSvc: txnSvc, impactSvc: impactSvc, inventorySvc: inventorySvc, noteSvc: noteSvc}
}

type impactResponse struct {
	Stats           *domain.ImpactStats  `json:"stats"`
	NextAchievement *service.Achievement `json:"next_achievement,omitempty"`
	Progress        float64              `json:"progress"`
}

// HandleGetImpact returns a user's impact dashboard data
func (h *UserHandler) HandleGetImpact(w http.ResponseWriter, r *http.Request) {
	stats, err := h.impactSvc.GetStats(r.Context(), mux.Vars(r)["netID"])
	if err != nil {
		writeError(w, err)
		return
	}
	next, progress := service.NextAchievement(stats.ContainersReused)
	writeJSON(w, http.StatusOK, impactResponse{Stats: stats, NextAchievement: next, Progress: progress})
}

type pagedTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int32                `json:"total"`
	Page         int32                `json:"page"`
	PageSize     int32                `json:"page_size"`
}

// HandleListTransactions pages through a user's checkout history
func (h *UserHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	netID := mux.Vars(r)["netID"]
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	txns, total, err := h.txnSvc.ListUserTransactions(r.Context(), netID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedTransactionsResponse{Transactions: txns, Total: total, Page: page, PageSize: pageSize})
}

// HandleListUserContainers lists containers currently held by a user
func (h *UserHandler) HandleListUserContainers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.inventorySvc.ListUserContainers(r.Context(), mux.Vars(r)["netID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// HandleUserQR serves the user's identification QR code as a PNG
func (h *UserHandler) HandleUserQR(w http.ResponseWriter, r *http.Request) {
	png, err := codec.UserQR(mux.Vars(r)["netID"])
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// HandleLeaderboard returns the top users by containers reused
func (h *UserHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r, "limit", 10)
	board, err := h.impactSvc.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type pagedNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
	Page          int32                 `json:"page"`
	PageSize      int32                 `json:"page_size"`
}

// HandleListNotifications pages through a user's notifications
func (h *UserHandler) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	netID := mux.Vars(r)["netID"]
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	notes, total, err := h.noteSvc.GetNotifications(r.Context(), netID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedNotificationsResponse{Notifications: notes, Total: total, Page: page, PageSize: pageSize})
}

// HandleMarkNotificationRead marks one notification as read
func (h *UserHandler) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.noteSvc.MarkAsRead(r.Context(), vars["netID"], vars["noteId"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RegisterUserRoutes registers per-user endpoints
func RegisterUserRoutes(router *mux.Router, h *UserHandler) {
	router.HandleFunc("/api/v1/users/{netID}/impact", h.HandleGetImpact).Methods("GET")
	router.HandleFunc("/api/v1/users/{netID}/transactions", h.HandleListTransactions).Methods("GET")
	router.HandleFunc("/api/v1/users/{netID}/containers", h.HandleListUserContainers).Methods("GET")
	router.HandleFunc("/api/v1/users/{netID}/qr", h.HandleUserQR).Methods("GET")
	router.HandleFunc("/api/v1/users/{netID}/notifications", h.HandleListNotifications).Methods("GET")
	router.HandleFunc("/api/v1/users/{netID}/notifications/{noteId}/read", h.HandleMarkNotificationRead).Methods("POST")
	router.HandleFunc("/api/v1/leaderboard", h.HandleLeaderboard).Methods("GET")
}
