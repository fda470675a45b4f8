package get_patient_bookings

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
	msgInvalidPatientID = "некорректный ID пациента"
	msgInvalidParams    = "некорректные параметры запроса"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/patients/{patientId}/bookings
// Query params: status, startDate, endDate (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.ParseInt(vars["patientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /patients/{id}/bookings - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /patients/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Историю бронирований видит только сам пациент
	if userID != patientID {
		h.logger.Warn("GET /patients/{id}/bookings - Access denied: patient_id=%d, user_id=%d",
			patientID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	serviceReq, err := ToServiceRequest(
		patientID,
		r.URL.Query().Get("status"),
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
	)
	if err != nil {
		h.logger.Warn("GET /patients/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetPatientBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /patients/{id}/bookings - Invalid input: patient_id=%d, error=%v", patientID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /patients/{id}/bookings - Failed to get bookings: patient_id=%d, error=%v",
			patientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /patients/{id}/bookings - Bookings retrieved successfully: patient_id=%d, count=%d",
		patientID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
