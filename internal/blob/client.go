package blob

import (
	"context"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskflow-api/internal/form"
	"github.com/BuzzLyutic/taskflow-api/internal/model"
)

const keyPrefix = "uploads/"

// Client загружает вложения и строит публичные ссылки на них
type Client struct {
	store  ObjectStore
	bucket string
}

func NewClient(store ObjectStore, bucket string) *Client {
	return &Client{store: store, bucket: bucket}
}

// Upload кладет файловую часть под сгенерированный ключ.
// Ошибка здесь фатальна для всей операции: задача не должна
// ссылаться на несохраненный объект.
func (c *Client) Upload(ctx context.Context, part form.Part) (model.AttachmentRef, error) {
	key := keyPrefix + newObjectID() + sanitizeFilename(part.Filename)

	if err := c.store.Put(ctx, key, part.Content); err != nil {
		return model.AttachmentRef{}, err
	}

	return model.AttachmentRef{
		Key: key,
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key),
	}, nil
}

// Remove удаляет объект по ключу; best-effort, решение об откате за вызывающим
func (c *Client) Remove(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

func newObjectID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// sanitizeFilename отрезает путь и управляющие символы, чтобы имя файла
// от клиента не могло внедриться в пространство ключей хранилища
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, name)
}
