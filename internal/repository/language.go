package repository

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// LanguageRepository 语言仓储，找不到时返回 errs.ErrLanguageNotFound
type LanguageRepository interface {
	FindByCode(ctx context.Context, code string) (domain.Language, error)
	FindByID(ctx context.Context, id int16) (domain.Language, error)
	FindAll(ctx context.Context) ([]domain.Language, error)
}

type languageRepository struct {
	dao dao.LanguageDAO
}

func NewLanguageRepository(d dao.LanguageDAO) LanguageRepository {
	return &languageRepository{dao: d}
}

func (r *languageRepository) FindByCode(ctx context.Context, code string) (domain.Language, error) {
	l, err := r.dao.FindByCode(ctx, domain.NormalizeLanguageCode(code))
	if err != nil {
		return domain.Language{}, err
	}
	return r.toDomain(l), nil
}

func (r *languageRepository) FindByID(ctx context.Context, id int16) (domain.Language, error) {
	l, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Language{}, err
	}
	return r.toDomain(l), nil
}

func (r *languageRepository) FindAll(ctx context.Context) ([]domain.Language, error) {
	ls, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Map(ls, func(_ int, src dao.Language) domain.Language {
		return r.toDomain(src)
	}), nil
}

func (r *languageRepository) toDomain(l dao.Language) domain.Language {
	return domain.Language{
		ID:        l.ID,
		Code:      domain.NormalizeLanguageCode(l.Code),
		Name:      l.Name,
		IsUnicode: l.IsUnicode,
	}
}
