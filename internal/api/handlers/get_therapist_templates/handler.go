package get_therapist_templates

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/templates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistID, err := strconv.ParseInt(vars["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/templates - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /therapists/{id}/templates - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Шаблоны видит только их владелец
	if userID != therapistID {
		h.logger.Warn("GET /therapists/{id}/templates - Access denied: therapist_id=%d, user_id=%d",
			therapistID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.GetTherapistTemplates(r.Context(), therapistID)
	if err != nil {
		h.logger.Error("GET /therapists/{id}/templates - Failed to get templates: therapist_id=%d, error=%v",
			therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /therapists/{id}/templates - Templates retrieved successfully: therapist_id=%d, count=%d",
		therapistID, len(result.Templates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
