package get_therapist_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/TMS-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidParams      = "некорректные параметры запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/bookings
// Query params: status, startDate, endDate (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := strconv.ParseInt(vars["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/bookings - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /therapists/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Записи терапевта видит только сам терапевт
	if userID != therapistID {
		h.logger.Warn("GET /therapists/{id}/bookings - Access denied: therapist_id=%d, user_id=%d",
			therapistID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	serviceReq, err := ToServiceRequest(
		therapistID,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
	)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTherapistBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /therapists/{id}/bookings - Invalid input: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /therapists/{id}/bookings - Failed to get bookings: therapist_id=%d, error=%v",
			therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /therapists/{id}/bookings - Bookings retrieved successfully: therapist_id=%d, count=%d",
		therapistID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
