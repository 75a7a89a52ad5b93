package cfg

import (
	"testing"
	"time"

	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "petshop")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "petshop")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "ledger-events")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, 10*time.Second, c.Http.WriteTimeout)
	assert.Equal(t, "8091", c.Grpc.Port)
	assert.Equal(t, "localhost", c.Db.Host)
	assert.Equal(t, int32(10), c.Db.MaxConns)
	assert.Equal(t, "db/migrations", c.Db.MigrationsDir)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 10, c.Kafka.OutboxBatchSize)
	assert.Equal(t, time.Minute, c.Redis.StatsTTL)
	assert.Equal(t, 3*time.Second, c.Redis.Timeout)
	assert.Equal(t, ArchiveNone, c.Archive.Backend)
	assert.Equal(t, int64(5), c.Stock.LowStockThreshold)
	assert.Empty(t, c.Stock.WebhookURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("STATS_TTL", "30s")
	t.Setenv("WRITE_TIMEOUT", "7s")
	t.Setenv("ARCHIVE_BACKEND", "MINIO")
	t.Setenv("LOW_STOCK_THRESHOLD", "2")
	t.Setenv("STOCK_WEBHOOK_URL", "http://hooks.local/stock")

	c, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "9000", c.Http.Port)
	assert.Equal(t, 30*time.Second, c.Redis.StatsTTL)
	assert.Equal(t, 7*time.Second, c.Redis.Timeout)
	assert.Equal(t, ArchiveMinio, c.Archive.Backend)
	assert.Equal(t, int64(2), c.Stock.LowStockThreshold)
	assert.Equal(t, "http://hooks.local/stock", c.Stock.WebhookURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing postgres user", "POSTGRES_USER", ""},
		{"missing kafka brokers", "KAFKA_BROKERS", ""},
		{"bad duration", "HTTP_READ_TIMEOUT", "soon"},
		{"bad int", "LOW_STOCK_THRESHOLD", "few"},
		{"bad bool", "MINIO_USE_SSL", "maybe"},
		{"unknown archive", "ARCHIVE_BACKEND", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(logger.NewNop())
			require.Error(t, err)
		})
	}
}

func TestParseIntEnvWrapsSentinel(t *testing.T) {
	t.Setenv("OUTBOX_BATCH_SIZE", "ten")

	_, err := parseIntEnv("OUTBOX_BATCH_SIZE", 10)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
}
