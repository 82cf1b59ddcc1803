package http

import (
	"net/http"
	"strconv"

	"drc-backend/internal/codec"
	"drc-backend/internal/domain"
	"drc-backend/internal/service"

	"github.com/gorilla/mux"
)

// ContainerHandler handles container inventory, registration, and
// facilities maintenance endpoints
type ContainerHandler struct {
	inventorySvc    service.InventoryService
	facilitiesSvc   service.FacilitiesService
	registrationSvc service.RegistrationService
}

// NewContainerHandler creates a new container handler
func NewContainerHandler(inventorySvc service.InventoryService, facilitiesSvc service.FacilitiesService, registrationSvc service.RegistrationService) *ContainerHandler {
	return &ContainerHandler{
		inventorySvc:    inventorySvc,
		facilitiesSvc:   facilitiesSvc,
		registrationSvc: registrationSvc,
	}
}

// HandleGetContainer returns a container with its derived status
func (h *ContainerHandler) HandleGetContainer(w http.ResponseWriter, r *http.Request) {
	c, err := h.inventorySvc.GetContainer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleContainerQR serves the container's QR code as a PNG
func (h *ContainerHandler) HandleContainerQR(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.inventorySvc.GetContainer(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	png, err := codec.ContainerQR(id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type pagedContainersResponse struct {
	Containers []domain.Container `json:"containers"`
	Total      int32              `json:"total"`
	Page       int32              `json:"page"`
	PageSize   int32              `json:"page_size"`
}

// HandleListByLocation lists a location's containers, paginated
func (h *ContainerHandler) HandleListByLocation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	cs, total, err := h.inventorySvc.ListByLocation(r.Context(), code, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedContainersResponse{Containers: cs, Total: total, Page: page, PageSize: pageSize})
}

// HandleLocationInventory returns status counts for a location
func (h *ContainerHandler) HandleLocationInventory(w http.ResponseWriter, r *http.Request) {
	summary, err := h.inventorySvc.LocationInventory(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleListLocations lists participating locations
func (h *ContainerHandler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.inventorySvc.ListLocations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

type registerBatchRequest struct {
	LocationCode string `json:"location_code"`
	Count        int    `json:"count"`
}

// HandleRegisterBatch bulk-registers new containers at a location
func (h *ContainerHandler) HandleRegisterBatch(w http.ResponseWriter, r *http.Request) {
	var req registerBatchRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	cs, err := h.registrationSvc.RegisterBatch(r.Context(), req.LocationCode, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cs)
}

type facilitiesActionRequest struct {
	ActorNetID string `json:"actor_net_id"`
	Condition  string `json:"condition,omitempty"`
}

// facilitiesAction decodes the shared request shape and dispatches
func (h *ContainerHandler) facilitiesAction(w http.ResponseWriter, r *http.Request, action func(actor, containerID string, req facilitiesActionRequest) error) {
	var req facilitiesActionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.ActorNetID == "" {
		badRequest(w, "actor_net_id is required")
		return
	}
	if err := action(req.ActorNetID, mux.Vars(r)["id"], req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ContainerHandler) HandleStartCleaning(w http.ResponseWriter, r *http.Request) {
	h.facilitiesAction(w, r, func(actor, id string, _ facilitiesActionRequest) error {
		return h.facilitiesSvc.StartCleaning(r.Context(), actor, id)
	})
}

func (h *ContainerHandler) HandleFinishCleaning(w http.ResponseWriter, r *http.Request) {
	h.facilitiesAction(w, r, func(actor, id string, _ facilitiesActionRequest) error {
		return h.facilitiesSvc.FinishCleaning(r.Context(), actor, id)
	})
}

func (h *ContainerHandler) HandleMarkDamaged(w http.ResponseWriter, r *http.Request) {
	h.facilitiesAction(w, r, func(actor, id string, req facilitiesActionRequest) error {
		return h.facilitiesSvc.MarkDamaged(r.Context(), actor, id, domain.ContainerCondition(req.Condition))
	})
}

func (h *ContainerHandler) HandleRepairComplete(w http.ResponseWriter, r *http.Request) {
	h.facilitiesAction(w, r, func(actor, id string, _ facilitiesActionRequest) error {
		return h.facilitiesSvc.RepairComplete(r.Context(), actor, id)
	})
}

func (h *ContainerHandler) HandleRetire(w http.ResponseWriter, r *http.Request) {
	h.facilitiesAction(w, r, func(actor, id string, _ facilitiesActionRequest) error {
		return h.facilitiesSvc.Retire(r.Context(), actor, id)
	})
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}

// RegisterContainerRoutes registers container, location, and facilities endpoints
func RegisterContainerRoutes(router *mux.Router, h *ContainerHandler) {
	router.HandleFunc("/api/v1/containers/{id}", h.HandleGetContainer).Methods("GET")
	router.HandleFunc("/api/v1/containers/{id}/qr", h.HandleContainerQR).Methods("GET")
	router.HandleFunc("/api/v1/containers/{id}/clean/start", h.HandleStartCleaning).Methods("POST")
	router.HandleFunc("/api/v1/containers/{id}/clean/finish", h.HandleFinishCleaning).Methods("POST")
	router.HandleFunc("/api/v1/containers/{id}/damage", h.HandleMarkDamaged).Methods("POST")
	router.HandleFunc("/api/v1/containers/{id}/repair", h.HandleRepairComplete).Methods("POST")
	router.HandleFunc("/api/v1/containers/{id}/retire", h.HandleRetire).Methods("POST")
	router.HandleFunc("/api/v1/locations", h.HandleListLocations).Methods("GET")
	router.HandleFunc("/api/v1/locations/{code}/containers", h.HandleListByLocation).Methods("GET")
	router.HandleFunc("/api/v1/locations/{code}/inventory", h.HandleLocationInventory).Methods("GET")
	router.HandleFunc("/api/v1/registrations", h.HandleRegisterBatch).Methods("POST")
}
