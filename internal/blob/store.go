package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var (
	ErrWrite  = errors.New("blob store write failed")
	ErrDelete = errors.New("blob store delete failed")
)

// ObjectInfo - ключ сохраненного объекта и время его записи
type ObjectInfo struct {
	Key     string
	ModTime time.Time
}

// ObjectStore - минимальный интерфейс blob-хранилища
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]ObjectInfo, error)
}

// JetStreamStore хранит объекты в NATS JetStream Object Store
type JetStreamStore struct {
	conn   *nats.Conn
	store  jetstream.ObjectStore
	bucket string
}

func NewJetStreamStore(ctx context.Context, natsURL, bucket string) (*JetStreamStore, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := js.ObjectStore(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{Bucket: bucket})
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open object store bucket %q: %w", bucket, err)
	}

	return &JetStreamStore{conn: conn, store: store, bucket: bucket}, nil
}

func (s *JetStreamStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.store.PutBytes(ctx, key, data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrWrite, err)
	}
	return nil
}

func (s *JetStreamStore) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %s", ErrDelete, err)
	}
	return nil
}

func (s *JetStreamStore) List(ctx context.Context) ([]ObjectInfo, error) {
	infos, err := s.store.List(ctx)
	if errors.Is(err, jetstream.ErrNoObjectsFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	objects := make([]ObjectInfo, 0, len(infos))
	for _, info := range infos {
		objects = append(objects, ObjectInfo{Key: info.Name, ModTime: info.ModTime})
	}
	return objects, nil
}

func (s *JetStreamStore) Close() {
	s.conn.Close()
}
