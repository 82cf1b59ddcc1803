package http

import (
	"net/http"

	"drc-backend/internal/rfid"

	"github.com/gorilla/mux"
)

// RFIDHandler drives the simulated reader session for demo scan stations
type RFIDHandler struct {
	sim *rfid.Simulator
}

// NewRFIDHandler creates a new RFID handler
func NewRFIDHandler(sim *rfid.Simulator) *RFIDHandler {
	return &RFIDHandler{sim: sim}
}

// HandleActivate turns the reader on
func (h *RFIDHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.sim.Activate()
	writeJSON(w, http.StatusOK, map[string]bool{"active": true})
}

// HandleDeactivate turns the reader off
func (h *RFIDHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.sim.Deactivate()
	writeJSON(w, http.StatusOK, map[string]bool{"active": false})
}

type rfidReadRequest struct {
	ContainerID string `json:"container_id,omitempty"`
}

// HandleRead performs one simulated tag read, targeted when container_id is set
func (h *RFIDHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	var req rfidReadRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
	}
	result := h.sim.Read(r.Context(), req.ContainerID)
	writeJSON(w, http.StatusOK, result)
}

type rfidBatchReadRequest struct {
	Count int `json:"count"`
}

// HandleBatchRead performs a paced batch of untargeted reads
func (h *RFIDHandler) HandleBatchRead(w http.ResponseWriter, r *http.Request) {
	var req rfidBatchReadRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid request body")
			return
		}
	}
	if req.Count < 1 {
		req.Count = rfid.DefaultBatchSize
	}
	results := h.sim.BatchRead(r.Context(), req.Count)
	writeJSON(w, http.StatusOK, results)
}

// RegisterRFIDRoutes registers the simulated reader endpoints
func RegisterRFIDRoutes(router *mux.Router, h *RFIDHandler) {
	router.HandleFunc("/api/v1/rfid/activate", h.HandleActivate).Methods("POST")
	router.HandleFunc("/api/v1/rfid/deactivate", h.HandleDeactivate).Methods("POST")
	router.HandleFunc("/api/v1/rfid/read", h.HandleRead).Methods("POST")
	router.HandleFunc("/api/v1/rfid/batch-read", h.HandleBatchRead).Methods("POST")
}
