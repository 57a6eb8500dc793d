package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow-api/internal/auth"
	"github.com/BuzzLyutic/taskflow-api/internal/form"
	"github.com/BuzzLyutic/taskflow-api/internal/model"
	"github.com/BuzzLyutic/taskflow-api/internal/repo"
	"github.com/BuzzLyutic/taskflow-api/internal/service"
	"github.com/BuzzLyutic/taskflow-api/pkg/respond"
)

const maxBodySize = 10 << 20 // лимит полезной нагрузки

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "missing identity")
		return
	}

	parts, err := h.parseBody(r)
	if err != nil {
		h.handleErrors(w, r, "An error occurred during task creation.", err)
		return
	}

	task, err := h.service.Create(r.Context(), ident, parts)
	if err != nil {
		h.handleErrors(w, r, "An error occurred during task creation.", err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("Task created successfully with id: %s", task.TaskID),
		"task_id": task.TaskID,
		"title":   task.Title,
	})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "missing identity")
		return
	}
	taskID := chi.URLParam(r, "task_id")

	parts, err := h.parseBody(r)
	if err != nil {
		h.handleErrors(w, r, "An error occurred during task update.", err)
		return
	}

	if _, err := h.service.Update(r.Context(), ident, taskID, parts); err != nil {
		h.handleErrors(w, r, "An error occurred during task update.", err)
		return
	}

	respond.Message(w, r, http.StatusOK, fmt.Sprintf("Task updated successfully with id: %s", taskID))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "missing identity")
		return
	}
	taskID := chi.URLParam(r, "task_id")

	if err := h.service.Delete(r.Context(), ident, taskID); err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			// Штатный исход, а не ошибка: повторное удаление дает 404
			respond.Message(w, r, http.StatusNotFound, fmt.Sprintf("Task with ID %s not found.", taskID))
			return
		}
		h.handleErrors(w, r, "An error occurred while deleting the task.", err)
		return
	}

	respond.Message(w, r, http.StatusOK,
		fmt.Sprintf("Task with ID %s and its attachment deleted successfully.", taskID))
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "missing identity")
		return
	}

	var filter model.TaskFilter
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	tasks, err := h.service.List(r.Context(), ident, filter)
	if err != nil {
		h.handleErrors(w, r, "Failed to get tasks", err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// parseBody читает тело, при необходимости снимает base64-обертку
// транспортного уровня и разбирает multipart
func (h *TaskHandler) parseBody(r *http.Request) ([]form.Part, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", form.ErrMalformed, err)
	}

	if strings.EqualFold(r.Header.Get("Content-Transfer-Encoding"), "base64") {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 body", form.ErrMalformed)
		}
		body = decoded
	}

	return form.Parse(body, r.Header.Get("Content-Type"))
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, message, "not found")
	case errors.Is(err, service.ErrValidation), errors.Is(err, form.ErrMalformed):
		respond.Error(w, r, http.StatusBadRequest, message, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated):
		respond.Error(w, r, http.StatusUnauthorized, message, "unauthenticated")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, message, err.Error())
	}
}
