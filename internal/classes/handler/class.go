package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"schoolclasses/internal/classes/service"
	apperrors "schoolclasses/pkg/errors"
	httputil "schoolclasses/pkg/http"
	"schoolclasses/pkg/logger"
	"schoolclasses/pkg/model"
)

const (
	classesPath = "/api/classes"
)

type ClassHandler struct {
	service service.ClassService
	log     *logger.Logger
}

func NewClassHandler(service service.ClassService, log *logger.Logger) *ClassHandler {
	return &ClassHandler{
		service: service,
		log:     log,
	}
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appErr := apperrors.New(apperrors.CodeBadRequest, "Invalid request body", http.StatusBadRequest)
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			appErr.Message = "Request body is required"
		case errors.As(err, &tooLarge):
			appErr = apperrors.New(apperrors.CodeTooLarge, "Request body too large", http.StatusRequestEntityTooLarge)
		}
		if writeErr := httputil.WriteError(w, appErr); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	class, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, class); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ClassHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sort, err := httputil.ExtractSort(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	classes, err := h.service.GetAll(r.Context(), sort)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, classes); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ClassHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if err := httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required")); err != nil {
			h.log.Error("failed to write bad request response", "handler", "GetByID", "operation", "WriteError", "error", err)
		}
		return
	}

	class, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, class); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ClassHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sort, err := httputil.ExtractSort(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	results, err := h.service.Search(r.Context(), httputil.ExtractQuery(r, httputil.QueryName), sort)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ClassHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seats, err := h.service.Book(r.Context(), ps.ByName("id"))
	h.writeSeats(w, "Book", seats, err)
}

func (h *ClassHandler) Unbook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	seats, err := h.service.Unbook(r.Context(), ps.ByName("id"))
	h.writeSeats(w, "Unbook", seats, err)
}

// writeSeats renders the {success, seats} body used by the booking endpoints.
// Failures keep the AppError status but carry {success: false, error}.
func (h *ClassHandler) writeSeats(w http.ResponseWriter, handler string, seats int, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		message := "Internal server error"
		if apperrors.IsAppError(err) {
			appErr := apperrors.AsAppError(err)
			status = appErr.StatusCode()
			message = appErr.Message
		}
		if writeErr := httputil.WriteJSON(w, status, model.SeatResponse{Success: false, Error: message}); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, model.SeatResponse{Success: true, Seats: &seats}); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

// RegisterRoutes mounts the catalog API. Single-record reads live under /id/
// because httprouter cannot mix a wildcard with the static /search segment.
func (h *ClassHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(classesPath, h.GetAll)
	router.POST(classesPath, h.Create)
	router.GET(classesPath+"/search", h.Search)
	router.GET(classesPath+"/id/:id", h.GetByID)
	router.POST(classesPath+"/:id/book", h.Book)
	router.POST(classesPath+"/:id/unbook", h.Unbook)
}
