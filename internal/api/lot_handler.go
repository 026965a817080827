package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"liftpark/internal/entities"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/service"
)

type LotHandler struct {
	Allocation *service.AllocationService
	Bookings   *service.BookingService
}

func NewLotHandler(allocation *service.AllocationService, bookings *service.BookingService) *LotHandler {
	return &LotHandler{Allocation: allocation, Bookings: bookings}
}

func (h *LotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Allocation.ListLots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (h *LotHandler) ListSpots(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidArgument("invalid lot id"))
		return
	}
	spots, err := h.Allocation.ListSpots(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spots)
}

func (h *LotHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Bookings.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *LotHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req entities.LotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	lot, err := h.Allocation.CreateLot(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lot)
}

func (h *LotHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidArgument("invalid lot id"))
		return
	}
	var req entities.LotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	lot, err := h.Allocation.UpdateLot(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}
