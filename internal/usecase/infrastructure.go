package usecase

import (
	"context"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
)

// StatisticsCache хранит готовые отчёты между запросами.
// Поколение растёт при каждом сбросе; SetView записывает отчёт, только если поколение
// не изменилось с момента, когда отчёт начали строить.
type StatisticsCache interface {
	GetView(ctx context.Context, view string, dst any) (bool, error)
	Generation(ctx context.Context) (int64, error)
	SetView(ctx context.Context, view string, value any, generation int64) (bool, error)
	InvalidateViews(ctx context.Context) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// ReportArchive сохраняет снимок статистики и возвращает его ключ в хранилище.
type ReportArchive interface {
	SaveSnapshot(ctx context.Context, snapshot *domain.StatisticsSnapshot) (string, error)
}

type StockNotifier interface {
	NotifyLowStock(ctx context.Context, n *LowStockNotification) error
}
