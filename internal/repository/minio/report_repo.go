package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const snapshotContentType = "application/json"

// ReportRepo сохраняет снимки статистики объектами JSON в MinIO.
type ReportRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewReportRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ReportRepo {
	return &ReportRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// SaveSnapshot загружает снимок в бакет отчётов и возвращает ключ объекта.
func (r *ReportRepo) SaveSnapshot(ctx context.Context, snapshot *domain.StatisticsSnapshot) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	key := snapshotKey(snapshot.GeneratedAt, uuid.NewString())
	info, err := r.mc.PutObject(ctx, r.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: snapshotContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// snapshotKey раскладывает снимки по датам: statistics/2024/05/01/20240501T020000Z-<id>.json
func snapshotKey(generatedAt time.Time, id string) string {
	t := generatedAt.UTC()
	return fmt.Sprintf("statistics/%s/%s-%s.json", t.Format("2006/01/02"), t.Format("20060102T150405Z"), id)
}
