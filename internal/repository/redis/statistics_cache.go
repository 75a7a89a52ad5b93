package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/clients"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix = "stats:"
	generationKey  = statsKeyPrefix + "gen"
)

// setViewScript записывает отчёт, только если поколение не изменилось.
// KEYS[1] - поколение, KEYS[2] - отчёт; ARGV: ожидаемое поколение, значение, TTL в мс.
var setViewScript = r.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	current = '0'
end
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// Views - все отчёты, которые хранятся в кэше и сбрасываются при изменении журнала.
var Views = []string{
	domain.ViewTopClientsByQuantity,
	domain.ViewMostConsumedItems,
	domain.ViewPetSegments,
	domain.ViewTopClientsByValue,
}

// StatisticsCache хранит сериализованные в JSON отчёты с TTL.
type StatisticsCache struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewStatisticsCache(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *StatisticsCache {
	return &StatisticsCache{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetView читает отчёт в dst. Возвращает false при промахе.
// Повреждённое значение удаляется и считается промахом.
func (c *StatisticsCache) GetView(ctx context.Context, view string, dst any) (bool, error) {
	key := viewKey(view)

	val, err := c.client.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return false, nil // cache miss
		}
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := redisValueToBytes(val, key)
	if err != nil || data == nil {
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warnf("Redis unmarshal failed for %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return false, nil
	}

	return true, nil
}

// Generation возвращает текущее поколение кэша; отсутствующий ключ - поколение 0.
func (c *StatisticsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return 0, nil
		}
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}
	return gen, nil
}

// SetView атомарно сравнивает поколение и записывает отчёт.
// Возвращает false, если после чтения generation кэш успели сбросить.
func (c *StatisticsCache) SetView(ctx context.Context, view string, value any, generation int64) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	stored, err := setViewScript.Run(ctx, c.client.Client,
		[]string{generationKey, viewKey(view)},
		strconv.FormatInt(generation, 10), data, c.cfg.StatsTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return stored == 1, nil
}

// InvalidateViews увеличивает поколение и удаляет все отчёты в одной транзакции MULTI.
func (c *StatisticsCache) InvalidateViews(ctx context.Context) error {
	keys := make([]string, len(Views))
	for i, view := range Views {
		keys[i] = viewKey(view)
	}

	_, err := c.client.Client.TxPipelined(ctx, func(pipe r.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// viewKey возвращает Redis-ключ отчёта
func viewKey(view string) string {
	return statsKeyPrefix + view
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val any, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
