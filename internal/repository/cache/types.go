package cache

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/domain"
)

var ErrKeyNotFound = errors.New("key not found")

// 本地参考数据缓存：找不到时返回 ok = false 且 err = nil，只有回源失败才返回 error

type LanguageCache interface {
	GetByCode(ctx context.Context, code string) (domain.Language, bool, error)
	GetByID(ctx context.Context, id int16) (domain.Language, bool, error)
}

type MobileAppCache interface {
	GetByID(ctx context.Context, id int64) (domain.MobileAppDetails, bool, error)
	GetByAfsAppID(ctx context.Context, afsAppID int16) (domain.MobileAppDetails, bool, error)
	GetByAppKey(ctx context.Context, key domain.AppKey) (domain.MobileAppDetails, bool, error)
}

type TemplateCache interface {
	Get(ctx context.Context, key domain.TemplateKey) (domain.TemplateCacheValue, bool, error)
}

// ActorDetailsCache 用户联系方式的分布式缓存
type ActorDetailsCache interface {
	Get(ctx context.Context, key domain.ActorKey) (domain.ActorCommunicationDetails, error)
	Set(ctx context.Context, details domain.ActorCommunicationDetails) error
	Del(ctx context.Context, key domain.ActorKey) error
}

const ActorCommPrefix = "actor:comm"

func ActorCommKey(key domain.ActorKey) string {
	return fmt.Sprintf("%s:%s:%d", ActorCommPrefix, key.ActorType, key.ActorID)
}
