package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"liftpark/internal/entities"
	"liftpark/internal/service"
)

type LiftHandler struct {
	Service *service.LiftService
}

func NewLiftHandler(svc *service.LiftService) *LiftHandler {
	return &LiftHandler{Service: svc}
}

func (h *LiftHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req entities.AssignLiftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Service.Assign(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LiftHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req entities.ReleaseLiftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.Release(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lift released"})
}

func (h *LiftHandler) List(w http.ResponseWriter, r *http.Request) {
	lifts, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lifts)
}

func (h *LiftHandler) ListByBlock(w http.ResponseWriter, r *http.Request) {
	lifts, err := h.Service.ListByBlock(r.Context(), mux.Vars(r)["blockID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lifts)
}

func (h *LiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	lift, err := h.Service.Get(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lift)
}

func (h *LiftHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req entities.UpdateLiftStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.UpdateStatus(r.Context(), mux.Vars(r)["code"], req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lift status updated"})
}

func (h *LiftHandler) UpdateSensor(w http.ResponseWriter, r *http.Request) {
	var req entities.UpdateLiftSensorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.UpdateSensor(r.Context(), mux.Vars(r)["code"], req.Present, req.Floor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Sensor state recorded"})
}

func (h *LiftHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Blocks   []string `json:"blocks"`
		PerBlock int      `json:"per_block"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.PerBlock <= 0 {
		req.PerBlock = 2
	}
	created, err := h.Service.InitializeLifts(r.Context(), req.Blocks, req.PerBlock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"created": created,
		"message": "Lifts initialized",
	})
}
