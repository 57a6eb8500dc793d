package worker

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskflow-api/internal/blob"
	"github.com/BuzzLyutic/taskflow-api/internal/repo"
)

// Sweeper удаляет из blob-хранилища объекты, на которые не ссылается
// ни одна задача. Такие объекты остаются после best-effort удаления
// и после замены вложения при обновлении.
type Sweeper struct {
	repo     repo.TaskRepository
	store    blob.ObjectStore
	logger   *zap.Logger
	interval time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewSweeper(r repo.TaskRepository, store blob.ObjectStore, logger *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     r,
		store:    store,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting attachment sweeper", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("Stopping attachment sweeper...")
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("Attachment sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep выполняет один проход очистки
func (s *Sweeper) Sweep(ctx context.Context) error {
	stored, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return nil
	}

	referenced, err := s.repo.ReferencedAttachmentKeys(ctx)
	if err != nil {
		return err
	}

	live := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		live[key] = struct{}{}
	}

	// Загрузка объекта происходит до записи задачи, так что свежий объект
	// может быть еще нигде не учтен - такие не трогаем до следующего прохода
	cutoff := time.Now().Add(-s.interval)

	removed := 0
	for _, obj := range stored {
		// Чужие ключи не трогаем
		if !strings.HasPrefix(obj.Key, "uploads/") {
			continue
		}
		if _, ok := live[obj.Key]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			s.logger.Warn("failed to remove orphaned object", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("Removed orphaned attachments", zap.Int("count", removed))
	}
	return nil
}
