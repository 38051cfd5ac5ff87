package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-admin/pkg/clients"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

const (
	categoriesKey        = "categories:all"
	categoriesVersionKey = "categories:version"
	productsVersionKey   = "products:version"
)

// errStaleVersion означает, что кэш успели сбросить, пока данные читались из БД.
var errStaleVersion = errors.New("cache version changed")

type CacheRepo struct {
	client       *clients.RedisClient
	productConv  converter.ProductConverter
	categoryConv converter.CategoryConverter
	cfg          *cfg.RedisCfg
	logger       logger.Logger
}

func NewCacheRepo(
	client *clients.RedisClient,
	productConv converter.ProductConverter,
	categoryConv converter.CategoryConverter,
	cfg *cfg.RedisCfg,
	logger logger.Logger,
) *CacheRepo {
	return &CacheRepo{
		client:       client,
		productConv:  productConv,
		categoryConv: categoryConv,
		cfg:          cfg,
		logger:       logger,
	}
}

// GetCategories возвращает закэшированный список категорий или e.ErrCacheMiss.
func (r *CacheRepo) GetCategories(ctx context.Context) ([]domain.Category, error) {
	data, err := r.client.Client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, e.ErrCacheMiss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.CategoryRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		r.logger.Warnf("Redis unmarshal failed, dropping categories cache: %v", e.Wrap(whereami.WhereAmI(), err))
		_ = r.client.Client.Del(ctx, categoriesKey).Err()
		return nil, e.ErrCacheMiss
	}

	return r.categoryConv.ToArrEntity(models), nil
}

// CategoriesVersion возвращает текущее поколение кэша категорий. Его нужно прочитать до запроса в БД.
func (r *CacheRepo) CategoriesVersion(ctx context.Context) (int64, error) {
	return readVersion(ctx, r.client.Client, categoriesVersionKey)
}

// SetCategories кэширует весь список целиком с TTL CATEGORY_TTL.
// Если после чтения version кэш был сброшен, запись пропускается.
func (r *CacheRepo) SetCategories(ctx context.Context, version int64, categories []domain.Category) error {
	data, err := json.Marshal(r.categoryConv.ToArrRedisModel(categories))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return r.setIfVersion(ctx, categoriesVersionKey, version, func(pipe goredis.Pipeliner) {
		pipe.Set(ctx, categoriesKey, data, r.cfg.CategoryTTL)
	})
}

// DeleteCategories сбрасывает список и увеличивает поколение в одной транзакции.
func (r *CacheRepo) DeleteCategories(ctx context.Context) error {
	_, err := r.client.Client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, categoriesVersionKey)
		pipe.Del(ctx, categoriesKey)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetProducts возвращает закэшированные продукты по ID, игнорируя промахи и логируя их
func (r *CacheRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	keys := r.buildProductCacheKeys(ids)

	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[int64]domain.Product, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		var model converter.ProductRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		if model.ID != ids[i] {
			r.logger.Warnf("Cache ID mismatch: key_id: %d, model_id: %d", ids[i], model.ID)
			if err := r.client.Client.Del(ctx, keys[i]).Err(); err != nil {
				r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}
		result[ids[i]] = *r.productConv.ToEntity(&model)
	}

	return result, nil
}

func (r *CacheRepo) ProductsVersion(ctx context.Context) (int64, error) {
	return readVersion(ctx, r.client.Client, productsVersionKey)
}

// SetProducts кэширует несколько продуктов одной транзакцией с TTL PRODUCT_TTL.
// Ошибки сериализации отдельных продуктов только логируются. Устаревшее поколение пропускает запись.
func (r *CacheRepo) SetProducts(ctx context.Context, version int64, products []domain.Product) error {
	payloads := make(map[string][]byte, len(products))
	for i := range products {
		data, err := json.Marshal(r.productConv.ToRedisModel(&products[i]))
		if err != nil {
			r.logger.Warnf("Failed to marshal product for caching (Product ID: %d): %v", products[i].ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}
		payloads[r.productKey(products[i].ID)] = data
	}

	if len(payloads) == 0 {
		return nil
	}

	return r.setIfVersion(ctx, productsVersionKey, version, func(pipe goredis.Pipeliner) {
		for key, data := range payloads {
			pipe.Set(ctx, key, data, r.cfg.ProductTTL)
		}
	})
}

// DeleteProducts удаляет продукты из кэша по ID и увеличивает поколение кэша продуктов.
func (r *CacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.client.Client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, productsVersionKey)
		pipe.Del(ctx, r.buildProductCacheKeys(ids)...)
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// setIfVersion выполняет fill в MULTI под WATCH ключа поколения.
// Если поколение отличается от version или изменилось до EXEC, запись молча пропускается.
func (r *CacheRepo) setIfVersion(ctx context.Context, versionKey string, version int64, fill func(pipe goredis.Pipeliner)) error {
	err := r.client.Client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := readVersion(ctx, tx, versionKey)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			fill(pipe)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil, errors.Is(err, errStaleVersion), errors.Is(err, goredis.TxFailedErr):
		return nil
	default:
		return e.Wrap(whereami.WhereAmI(), err)
	}
}

type stringGetter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func readVersion(ctx context.Context, c stringGetter, key string) (int64, error) {
	version, err := c.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return version, nil
}

// buildProductCacheKeys формирует Redis-ключи из ID продуктов
func (r *CacheRepo) buildProductCacheKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}

	return keys
}

func (r *CacheRepo) productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
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
