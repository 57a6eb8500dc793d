package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskflow-api/internal/model"
)

var (
	ErrorNotFound    = errors.New("not found")
	ErrorPersistence = errors.New("persistence error")
)

const taskColumns = "task_id, user_id, title, description, status, attachment_key, attachment_url, created_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (task_id, user_id, title, description, status, attachment_key, attachment_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.TaskID, t.UserID, t.Title, t.Description, t.Status, t.AttachmentKey, t.AttachmentURL, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrorPersistence, err)
	}
	return nil
}

func (r *TaskRepo) Get(ctx context.Context, taskID string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE task_id = $1
	`, taskID).Scan(
		&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.AttachmentKey, &t.AttachmentURL, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, fmt.Errorf("%w: %s", ErrorPersistence, err)
	}
	return t, nil
}

// ApplyPartialUpdate меняет только переданные поля. Имена колонок берутся
// из фиксированного списка, значения всегда уходят параметрами.
func (r *TaskRepo) ApplyPartialUpdate(ctx context.Context, taskID string, upd model.TaskUpdate) (model.Task, error) {
	if upd.Empty() {
		return r.Get(ctx, taskID)
	}

	set := make([]string, 0, 5)
	args := []any{taskID}

	addColumn := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		addColumn("title", *upd.Title)
	}
	if upd.Description != nil {
		addColumn("description", *upd.Description)
	}
	if upd.Status != nil {
		addColumn("status", *upd.Status)
	}
	if upd.Attachment != nil {
		addColumn("attachment_key", upd.Attachment.Key)
		addColumn("attachment_url", upd.Attachment.URL)
	}

	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET `+strings.Join(set, ", ")+`
		WHERE task_id = $1
		RETURNING `+taskColumns+`
	`, args...).Scan(
		&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.AttachmentKey, &t.AttachmentURL, &t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, fmt.Errorf("%w: %s", ErrorPersistence, err)
	}
	return t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, taskID string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE task_id = $1", taskID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrorPersistence, err)
	}
	if cmd.RowsAffected() == 0 { // Условие существования вместо read-then-delete
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) ListByOwner(ctx context.Context, userID string, filter model.TaskFilter) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		  AND ($2::text IS NULL OR status = $2)
	`, userID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrorPersistence, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.AttachmentKey, &t.AttachmentURL, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) ReferencedAttachmentKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT attachment_key FROM tasks WHERE attachment_key IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrorPersistence, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
