package scheduler

import (
	"context"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const archiveTimeout = 2 * time.Minute

// SnapshotArchiver сохраняет текущий снимок статистики в архив.
type SnapshotArchiver interface {
	ArchiveSnapshot(ctx context.Context) (string, error)
}

// Scheduler запускает периодические задачи сервиса.
type Scheduler struct {
	cron     *cron.Cron
	archiver SnapshotArchiver
	cfg      *cfg.ArchiveCfg
	logger   logger.Logger
}

func NewScheduler(cfg *cfg.ArchiveCfg, archiver SnapshotArchiver, logger logger.Logger) *Scheduler {
	// Стандартный парсер: 5 полей (min, hour, dom, month, dow).
	c := cron.New()

	return &Scheduler{
		cron:     c,
		archiver: archiver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start регистрирует задачи и запускает cron. Некорректное расписание возвращается ошибкой.
func (s *Scheduler) Start() error {
	const op = "Scheduler.Start"

	if _, err := s.cron.AddFunc(s.cfg.Cron, s.archiveStatistics); err != nil {
		return e.Wrap(op, err)
	}

	s.logger.Infof("Scheduler started, statistics archive at '%s'", s.cfg.Cron)
	s.cron.Start()
	return nil
}

// Stop останавливает cron и ждёт завершения запущенных задач, пока ctx не истёк.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Infof("Stopping scheduler")

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) archiveStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	key, err := s.archiver.ArchiveSnapshot(ctx)
	if err != nil {
		s.logger.Errorf(err, "failed to archive statistics snapshot")
		return
	}

	s.logger.Infof("Statistics snapshot archived: %s", key)
}
