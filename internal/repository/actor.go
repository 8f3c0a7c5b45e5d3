package repository

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
)

// ActorRepository 用户联系方式与推送token
//
//go:generate mockgen -source=./actor.go -destination=./mocks/actor.mock.go -package=repomocks ActorRepository
type ActorRepository interface {
	// FindCommDetails 找不到时返回 errs.ErrActorDetailsNotFound
	FindCommDetails(ctx context.Context, key domain.ActorKey) (domain.ActorCommunicationDetails, error)
	SaveCommDetails(ctx context.Context, details domain.ActorCommunicationDetails) error
	// FindActiveAppToken 找不到时返回 errs.ErrAppTokenOrDetailsNotFound
	FindActiveAppToken(ctx context.Context, key domain.ActorKey, appDetailIDs []int64) (domain.ActorAppToken, error)
	SaveAppToken(ctx context.Context, token domain.ActorAppToken) error
}

type actorRepository struct {
	dao dao.ActorDAO
}

func NewActorRepository(d dao.ActorDAO) ActorRepository {
	return &actorRepository{dao: d}
}

func (r *actorRepository) FindCommDetails(ctx context.Context, key domain.ActorKey) (domain.ActorCommunicationDetails, error) {
	d, err := r.dao.FindCommDetails(ctx, key.ActorID, string(key.ActorType))
	if err != nil {
		return domain.ActorCommunicationDetails{}, err
	}
	return domain.ActorCommunicationDetails{
		ActorID:      d.ActorID,
		ActorType:    domain.ActorType(d.ActorType),
		MobileNumber: d.MobileNumber,
		LanguageID:   d.LanguageID,
		Active:       d.Active,
	}, nil
}

func (r *actorRepository) SaveCommDetails(ctx context.Context, details domain.ActorCommunicationDetails) error {
	return r.dao.UpsertCommDetails(ctx, dao.ActorCommDetails{
		ActorID:      details.ActorID,
		ActorType:    string(details.ActorType),
		MobileNumber: details.MobileNumber,
		LanguageID:   details.LanguageID,
		Active:       details.Active,
	})
}

func (r *actorRepository) FindActiveAppToken(ctx context.Context, key domain.ActorKey, appDetailIDs []int64) (domain.ActorAppToken, error) {
	t, err := r.dao.FindActiveAppToken(ctx, key.ActorID, string(key.ActorType), appDetailIDs)
	if err != nil {
		return domain.ActorAppToken{}, err
	}
	return domain.ActorAppToken{
		ID:                 t.ID,
		ActorID:            t.ActorID,
		ActorType:          domain.ActorType(t.ActorType),
		MobileAppDetailsID: t.MobileAppDetailsID,
		FcmToken:           t.FcmToken,
		Active:             t.Active,
	}, nil
}

func (r *actorRepository) SaveAppToken(ctx context.Context, token domain.ActorAppToken) error {
	return r.dao.UpsertAppToken(ctx, dao.ActorAppToken{
		ActorID:            token.ActorID,
		ActorType:          string(token.ActorType),
		MobileAppDetailsID: token.MobileAppDetailsID,
		FcmToken:           token.FcmToken,
		Active:             token.Active,
	})
}
