package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"liftpark/internal/auth"
	"liftpark/internal/entities"
	"liftpark/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Service.Create(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Service.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.ToBookingResponse(booking))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	bookings, err := h.Service.ListUserBookings(r.Context(), auth.UserID(r.Context()), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req entities.MarkPaidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.Service.MarkPaid(r.Context(), mux.Vars(r)["code"], req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.ToBookingResponse(booking))
}

func (h *BookingHandler) Park(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Service.Park(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.ToBookingResponse(booking))
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req entities.CompleteBookingRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	resp, err := h.Service.Complete(r.Context(), mux.Vars(r)["code"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Cancel(r.Context(), mux.Vars(r)["code"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}
