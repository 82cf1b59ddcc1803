package http

import (
	"net/http"

	"drc-backend/internal/codec"
	"drc-backend/internal/service"

	"github.com/gorilla/mux"
)

// ScanHandler resolves raw scanner output to identifiers
type ScanHandler struct {
	scanSvc service.ScanService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanSvc service.ScanService) *ScanHandler {
	return &ScanHandler{scanSvc: scanSvc}
}

type resolveScanRequest struct {
	Data     string `json:"data"`
	Expected string `json:"expected"` // "container" or "user"
}

type resolveScanResponse struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Version string `json:"version"`
}

// HandleResolve decodes a scanned QR or RFID payload
func (h *ScanHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveScanRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	expected := codec.PayloadKind(req.Expected)
	if expected != codec.PayloadKindContainer && expected != codec.PayloadKindUser {
		badRequest(w, "expected must be \"container\" or \"user\"")
		return
	}

	p, err := h.scanSvc.Resolve(r.Context(), req.Data, expected)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveScanResponse{
		Kind:    string(p.Kind),
		ID:      p.ID,
		Version: p.Version,
	})
}

type manualEntryRequest struct {
	ContainerID string `json:"container_id"`
}

// HandleManualEntry validates a typed-in container identifier
func (h *ScanHandler) HandleManualEntry(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	id, err := h.scanSvc.ResolveManualContainer(r.Context(), req.ContainerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveScanResponse{
		Kind: string(codec.PayloadKindContainer),
		ID:   id,
	})
}

// RegisterScanRoutes registers scan resolution endpoints
func RegisterScanRoutes(router *mux.Router, h *ScanHandler) {
	router.HandleFunc("/api/v1/scan/resolve", h.HandleResolve).Methods("POST")
	router.HandleFunc("/api/v1/scan/manual", h.HandleManualEntry).Methods("POST")
}
