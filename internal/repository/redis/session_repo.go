package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-admin/pkg/clients"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// SessionRepo хранит сессии администраторов в Redis. Истечение сессии обеспечивает TTL ключа.
type SessionRepo struct {
	client *clients.RedisClient
	conv   converter.SessionConverter
}

func NewSessionRepo(client *clients.RedisClient, conv converter.SessionConverter) *SessionRepo {
	return &SessionRepo{client: client, conv: conv}
}

func (s *SessionRepo) Create(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(s.conv.ToRedisModel(session))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := s.client.Client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Get возвращает сессию или e.ErrUnauthenticated, если ключ отсутствует или истёк.
func (s *SessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, e.ErrUnauthenticated
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.SessionRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}

func (s *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := s.client.Client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
