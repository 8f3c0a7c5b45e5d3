package ioc

import (
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
)

// InitActorRepository 联系方式走 redis 读穿缓存
func InitActorRepository(d dao.ActorDAO, c cache.ActorDetailsCache) repository.ActorRepository {
	return repository.NewCachedActorRepository(repository.NewActorRepository(d), c)
}
