package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingArchiver struct {
	calls atomic.Int32
	err   error
}

func (a *countingArchiver) ArchiveSnapshot(ctx context.Context) (string, error) {
	a.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("archive called without deadline")
	}
	return "statistics/test.json", a.err
}

func TestScheduler_InvalidCron(t *testing.T) {
	s := NewScheduler(&cfg.ArchiveCfg{Cron: "every day"}, &countingArchiver{}, logger.NewNop())

	require.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&cfg.ArchiveCfg{Cron: "0 2 * * *"}, &countingArchiver{}, logger.NewNop())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_ArchiveJob(t *testing.T) {
	ok := &countingArchiver{}
	NewScheduler(&cfg.ArchiveCfg{}, ok, logger.NewNop()).archiveStatistics()
	assert.EqualValues(t, 1, ok.calls.Load())

	failing := &countingArchiver{err: errors.New("bucket missing")}
	NewScheduler(&cfg.ArchiveCfg{}, failing, logger.NewNop()).archiveStatistics()
	assert.EqualValues(t, 1, failing.calls.Load())
}
