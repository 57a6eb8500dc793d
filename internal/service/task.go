package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow-api/internal/auth"
	"github.com/BuzzLyutic/taskflow-api/internal/blob"
	"github.com/BuzzLyutic/taskflow-api/internal/form"
	"github.com/BuzzLyutic/taskflow-api/internal/model"
	"github.com/BuzzLyutic/taskflow-api/internal/notify"
	"github.com/BuzzLyutic/taskflow-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo        repo.TaskRepository
	attachments *blob.Client
	notifier    notify.Notifier
	logger      *zap.Logger
}

func NewTaskService(r repo.TaskRepository, attachments *blob.Client, notifier notify.Notifier, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:        r,
		attachments: attachments,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *TaskService) Create(ctx context.Context, ident auth.Identity, parts []form.Part) (model.Task, error) {
	if ident.Sub == "" || ident.Email == "" {
		return model.Task{}, auth.ErrUnauthenticated
	}

	task := model.Task{
		TaskID:    newTaskID(),
		UserID:    ident.Sub,
		Status:    model.DefaultStatus,
		CreatedAt: time.Now().UTC(),
	}

	for _, p := range parts {
		if p.IsFile() {
			continue
		}
		switch p.Name {
		case "title":
			task.Title = p.Text()
		case "description":
			d := p.Text()
			task.Description = &d
		case "status":
			if v := p.Text(); v != "" {
				task.Status = v
			}
		}
	}

	if strings.TrimSpace(task.Title) == "" {
		return task, fmt.Errorf("%w: missing title", ErrValidation)
	}

	// Вложение загружается до записи: задача не должна ссылаться
	// на несохраненный объект
	if file, ok := firstFilePart(parts); ok {
		ref, err := s.attachments.Upload(ctx, file)
		if err != nil {
			return task, err
		}
		task.AttachmentKey = &ref.Key
		task.AttachmentURL = &ref.URL
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return task, err
	}

	// Письмо шлется после записи; его сбой сейчас валит весь запрос,
	// хотя задача уже сохранена - текст ошибки это отражает
	if err := s.notifier.TaskCreated(ctx, ident.Email, task); err != nil {
		return task, fmt.Errorf("task %s created but notification failed: %w", task.TaskID, err)
	}

	return task, nil
}

func (s *TaskService) Update(ctx context.Context, ident auth.Identity, taskID string, parts []form.Part) (model.Task, error) {
	existing, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if existing.UserID != ident.Sub {
		// Чужие задачи неотличимы от несуществующих
		return model.Task{}, repo.ErrorNotFound
	}

	var upd model.TaskUpdate
	for _, p := range parts {
		if p.IsFile() {
			continue
		}
		value := p.Text()
		if value == "" {
			continue
		}
		switch p.Name {
		case "title":
			upd.Title = &value
		case "description":
			upd.Description = &value
		case "status":
			upd.Status = &value
		}
	}

	if file, ok := firstFilePart(parts); ok {
		ref, err := s.attachments.Upload(ctx, file)
		if err != nil {
			return model.Task{}, err
		}
		upd.Attachment = &ref
	}

	return s.repo.ApplyPartialUpdate(ctx, taskID, upd)
}

func (s *TaskService) Delete(ctx context.Context, ident auth.Identity, taskID string) error {
	task, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if task.UserID != ident.Sub {
		return repo.ErrorNotFound
	}

	if task.AttachmentKey != nil {
		// Best-effort: сбой удаления объекта не блокирует удаление записи,
		// осиротевшие объекты подчищает sweeper
		if err := s.attachments.Remove(ctx, *task.AttachmentKey); err != nil {
			s.logger.Warn("failed to delete attachment",
				zap.String("task_id", taskID),
				zap.String("attachment_key", *task.AttachmentKey),
				zap.Error(err),
			)
		}
	}

	return s.repo.Delete(ctx, taskID)
}

func (s *TaskService) List(ctx context.Context, ident auth.Identity, filter model.TaskFilter) ([]model.Task, error) {
	return s.repo.ListByOwner(ctx, ident.Sub, filter)
}

func firstFilePart(parts []form.Part) (form.Part, bool) {
	for _, p := range parts {
		if p.IsFile() {
			return p, true
		}
	}
	return form.Part{}, false
}

func newTaskID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
