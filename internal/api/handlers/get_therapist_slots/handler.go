package get_therapist_slots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidParams      = "некорректные параметры запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
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

// Handle GET /api/v1/therapists/{therapistId}/slots
// Query params: startDate, endDate, isBooked (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := strconv.ParseInt(vars["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/slots - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /therapists/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Полное расписание видит только сам терапевт
	if userID != therapistID {
		h.logger.Warn("GET /therapists/{id}/slots - Access denied: therapist_id=%d, user_id=%d",
			therapistID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	serviceReq, err := ToServiceRequest(
		therapistID,
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
		r.URL.Query().Get("isBooked"),
	)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTherapistSlots(r.Context(), serviceReq)
	if err != nil {
		h.logger.Error("GET /therapists/{id}/slots - Failed to get slots: therapist_id=%d, error=%v",
			therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /therapists/{id}/slots - Slots retrieved successfully: therapist_id=%d, count=%d",
		therapistID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
