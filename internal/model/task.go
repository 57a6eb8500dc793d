package model

import "time"

const DefaultStatus = "open"

type Task struct {
	TaskID        string    `json:"task_id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Status        string    `json:"status"`
	AttachmentKey *string   `json:"attachment_key"`
	AttachmentURL *string   `json:"attachment_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// AttachmentRef указывает на загруженный файл: ключ и URL всегда парой
type AttachmentRef struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// TaskUpdate - частичное обновление: nil-поля не трогаются
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Attachment  *AttachmentRef
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Attachment == nil
}

type TaskFilter struct {
	Status *string
}
