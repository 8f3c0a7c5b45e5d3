package repository

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// TemplateRepository 模板仓储，找不到时返回 errs.ErrTemplateNotFound
type TemplateRepository interface {
	FindActive(ctx context.Context, key domain.TemplateKey) (domain.Template, error)
	FindAllActive(ctx context.Context) ([]domain.Template, error)
}

type templateRepository struct {
	dao dao.TemplateDAO
}

func NewTemplateRepository(d dao.TemplateDAO) TemplateRepository {
	return &templateRepository{dao: d}
}

func (r *templateRepository) FindActive(ctx context.Context, key domain.TemplateKey) (domain.Template, error) {
	t, err := r.dao.FindActive(ctx, key.Name, key.LanguageID)
	if err != nil {
		return domain.Template{}, err
	}
	return r.toDomain(t), nil
}

func (r *templateRepository) FindAllActive(ctx context.Context) ([]domain.Template, error) {
	ts, err := r.dao.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Map(ts, func(_ int, src dao.Template) domain.Template {
		return r.toDomain(src)
	}), nil
}

func (r *templateRepository) toDomain(t dao.Template) domain.Template {
	res := domain.Template{
		ID:          t.ID,
		Name:        t.Name,
		LanguageID:  t.LanguageID,
		ContentType: domain.ContentType(t.ContentType),
		Content:     t.Content,
		Title:       t.Title,
		Attributes:  t.Attributes.Val,
		MetaData:    t.MetaData.Val,
		Active:      t.Active,
	}
	if res.Attributes == nil {
		res.Attributes = map[string]string{}
	}
	if res.MetaData == nil {
		res.MetaData = map[string]string{}
	}
	return res
}
