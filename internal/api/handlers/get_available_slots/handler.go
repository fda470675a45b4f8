package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/service/timeslots"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidParams      = "некорректные параметры запроса"
)

type Handler struct {
	service TimeSlotService
	logger  Logger
}

func NewHandler(service TimeSlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/available-slots
// Query params: startDate, endDate (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := strconv.ParseInt(vars["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/available-slots - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	serviceReq, err := ToServiceRequest(
		therapistID,
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
	)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetAvailableSlots(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, timeslots.ErrInvalidInput) {
			h.logger.Warn("GET /therapists/{id}/available-slots - Invalid input: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /therapists/{id}/available-slots - Failed to get slots: therapist_id=%d, error=%v",
			therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /therapists/{id}/available-slots - Slots retrieved successfully: therapist_id=%d, count=%d",
		therapistID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
