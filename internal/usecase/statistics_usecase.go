package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/DRSN-tech/petshop-backend/pkg/tr"
)

const cacheWriteTimeout = 500 * time.Millisecond

// StatisticsUseCase строит отчёты по журналу.
// Каждый отчёт читается в одной транзакции REPEATABLE READ, поэтому видит согласованный снимок.
type StatisticsUseCase struct {
	trManager   TxManager
	clientRepo  ClientRepository
	productRepo ProductRepository
	serviceRepo ServiceRepository
	petRepo     PetRepository
	productCons ProductConsumptionRepository
	serviceCons ServiceConsumptionRepository
	cache       StatisticsCache
	archive     ReportArchive
	logger      logger.Logger

	wg sync.WaitGroup
}

func NewStatisticsUC(
	trManager TxManager,
	clientRepo ClientRepository,
	productRepo ProductRepository,
	serviceRepo ServiceRepository,
	petRepo PetRepository,
	productCons ProductConsumptionRepository,
	serviceCons ServiceConsumptionRepository,
	cache StatisticsCache,
	archive ReportArchive,
	logger logger.Logger,
) *StatisticsUseCase {
	return &StatisticsUseCase{
		trManager:   trManager,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		serviceRepo: serviceRepo,
		petRepo:     petRepo,
		productCons: productCons,
		serviceCons: serviceCons,
		cache:       cache,
		archive:     archive,
		logger:      logger,
	}
}

func (s *StatisticsUseCase) TopClientsByQuantity(ctx context.Context) ([]domain.ClientRanking, error) {
	const op = "StatisticsUseCase.TopClientsByQuantity"

	res, err := cachedView(ctx, s, domain.ViewTopClientsByQuantity, TopClientsByQuantity)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (s *StatisticsUseCase) MostConsumedItems(ctx context.Context) ([]domain.ItemConsumption, error) {
	const op = "StatisticsUseCase.MostConsumedItems"

	res, err := cachedView(ctx, s, domain.ViewMostConsumedItems, MostConsumedItems)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (s *StatisticsUseCase) ConsumptionByPetTypeAndBreed(ctx context.Context) ([]domain.PetSegment, error) {
	const op = "StatisticsUseCase.ConsumptionByPetTypeAndBreed"

	res, err := cachedView(ctx, s, domain.ViewPetSegments, ConsumptionByPetTypeAndBreed)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

func (s *StatisticsUseCase) TopClientsByValue(ctx context.Context) ([]domain.ClientRanking, error) {
	const op = "StatisticsUseCase.TopClientsByValue"

	res, err := cachedView(ctx, s, domain.ViewTopClientsByValue, TopClientsByValue)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return res, nil
}

// Snapshot строит все отчёты по одному чтению, минуя кэш.
func (s *StatisticsUseCase) Snapshot(ctx context.Context) (*domain.StatisticsSnapshot, error) {
	const op = "StatisticsUseCase.Snapshot"

	ds, err := s.loadDataset(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	snapshot := BuildSnapshot(ds)
	snapshot.GeneratedAt = time.Now().UTC()

	return snapshot, nil
}

// ArchiveSnapshot сохраняет текущий снимок в архив отчётов и возвращает его ключ.
func (s *StatisticsUseCase) ArchiveSnapshot(ctx context.Context) (string, error) {
	const op = "StatisticsUseCase.ArchiveSnapshot"

	if s.archive == nil {
		return "", e.Wrap(op, e.ErrUnknownArchive)
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	key, err := s.archive.SaveSnapshot(ctx, snapshot)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	s.logger.Infof("Statistics snapshot archived: %s", key)

	return key, nil
}

// Wait дожидается фоновых записей в кэш.
func (s *StatisticsUseCase) Wait() {
	s.wg.Wait()
}

// cachedView отдаёт отчёт из кэша, а при промахе строит его и кладёт в кэш в фоне.
// Поколение кэша читается до снимка данных: если журнал изменился после снимка,
// сброс увеличит поколение и устаревший отчёт не будет записан.
// Недоступный кэш не мешает построить отчёт.
func cachedView[T any](ctx context.Context, s *StatisticsUseCase, view string, build func(*Dataset) T) (T, error) {
	const op = "StatisticsUseCase.cachedView"

	var cached T
	hit, err := s.cache.GetView(ctx, view, &cached)
	if err != nil {
		s.logger.Warnf("Failed to read %s from cache: %v", view, e.Wrap(op, err))
	} else if hit {
		return cached, nil
	}

	generation, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warnf("Failed to read cache generation, %s will not be cached: %v", view, e.Wrap(op, genErr))
	}

	ds, err := s.loadDataset(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	res := build(ds)

	if genErr != nil {
		return res, nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bgCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		stored, err := s.cache.SetView(bgCtx, view, res, generation)
		if err != nil {
			s.logger.Warnf("Failed to cache %s in background: %v", view, e.Wrap(op, err))
			return
		}
		if !stored {
			s.logger.Debugf("Skipped caching %s: ledger changed while it was built", view)
		}
	}()

	return res, nil
}

// loadDataset читает все данные отчётов в одной read-only транзакции REPEATABLE READ.
func (s *StatisticsUseCase) loadDataset(ctx context.Context) (*Dataset, error) {
	const op = "StatisticsUseCase.loadDataset"

	ds := &Dataset{}
	err := s.trManager.DoWithSettings(ctx, tr.SnapshotSettings(), func(ctx context.Context) error {
		var err error
		if ds.Clients, err = s.clientRepo.List(ctx); err != nil {
			return err
		}
		if ds.Products, err = s.productRepo.List(ctx); err != nil {
			return err
		}
		if ds.Services, err = s.serviceRepo.List(ctx); err != nil {
			return err
		}
		if ds.Pets, err = s.petRepo.List(ctx); err != nil {
			return err
		}
		if ds.ProductConsumptions, err = s.productCons.ListAll(ctx); err != nil {
			return err
		}
		ds.ServiceConsumptions, err = s.serviceCons.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return ds, nil
}
