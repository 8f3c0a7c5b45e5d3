package redis

import (
	"context"
	"encoding/json"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultExpiration = 30 * time.Minute

type ActorDetailsCache struct {
	rdb        redis.Cmdable
	expiration time.Duration
}

func NewActorDetailsCache(rdb redis.Cmdable) *ActorDetailsCache {
	return &ActorDetailsCache{
		rdb:        rdb,
		expiration: defaultExpiration,
	}
}

func (c *ActorDetailsCache) Get(ctx context.Context, key domain.ActorKey) (domain.ActorCommunicationDetails, error) {
	val, err := c.rdb.Get(ctx, cache.ActorCommKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ActorCommunicationDetails{}, cache.ErrKeyNotFound
		}
		return domain.ActorCommunicationDetails{}, errors.Wrap(err, "failed to get actor details from redis")
	}
	var details domain.ActorCommunicationDetails
	if err = json.Unmarshal(val, &details); err != nil {
		return domain.ActorCommunicationDetails{}, errors.Wrap(err, "failed to unmarshal actor details")
	}
	return details, nil
}

func (c *ActorDetailsCache) Set(ctx context.Context, details domain.ActorCommunicationDetails) error {
	data, err := json.Marshal(details)
	if err != nil {
		return errors.Wrap(err, "failed to marshal actor details")
	}
	key := domain.ActorKey{ActorID: details.ActorID, ActorType: details.ActorType}
	return errors.Wrap(c.rdb.Set(ctx, cache.ActorCommKey(key), data, c.expiration).Err(),
		"failed to set actor details to redis")
}

func (c *ActorDetailsCache) Del(ctx context.Context, key domain.ActorKey) error {
	return errors.Wrap(c.rdb.Del(ctx, cache.ActorCommKey(key)).Err(), "failed to delete actor details from redis")
}
