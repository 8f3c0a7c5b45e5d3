package template

import (
	"context"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
)

const DefaultLanguageCode = "hi-in"

// Resolver 按语言偏好查找模板并渲染
type Resolver struct {
	templates       cache.TemplateCache
	languages       cache.LanguageCache
	defaultLanguage string
	logger          *elog.Component
}

// NewResolver defaultLanguage 为空时使用 hi-in
func NewResolver(templates cache.TemplateCache, languages cache.LanguageCache, defaultLanguage string) *Resolver {
	if defaultLanguage == "" {
		defaultLanguage = DefaultLanguageCode
	}
	return &Resolver{
		templates:       templates,
		languages:       languages,
		defaultLanguage: domain.NormalizeLanguageCode(defaultLanguage),
		logger:          elog.DefaultLogger,
	}
}

// Resolve 依次尝试主语言、第二语言和默认语言，已经尝试过的语言不会重复查找。
// 返回找到的模板以及模板实际使用的语言
func (r *Resolver) Resolve(ctx context.Context, name string, primary, secondary *domain.Language) (domain.TemplateCacheValue, domain.Language, error) {
	tried := make(map[int16]struct{}, 3)
	try := func(lang domain.Language) (domain.TemplateCacheValue, bool, error) {
		if _, ok := tried[lang.ID]; ok {
			return domain.TemplateCacheValue{}, false, nil
		}
		tried[lang.ID] = struct{}{}
		return r.templates.Get(ctx, domain.TemplateKey{Name: name, LanguageID: lang.ID})
	}

	for _, lang := range []*domain.Language{primary, secondary} {
		if lang == nil {
			continue
		}
		val, ok, err := try(*lang)
		if err != nil {
			return domain.TemplateCacheValue{}, domain.Language{}, err
		}
		if ok {
			return val, *lang, nil
		}
	}

	def, ok, err := r.languages.GetByCode(ctx, r.defaultLanguage)
	if err != nil {
		return domain.TemplateCacheValue{}, domain.Language{}, err
	}
	if !ok {
		r.logger.Error("默认语言不存在", elog.String("code", r.defaultLanguage))
		return domain.TemplateCacheValue{}, domain.Language{}, fmt.Errorf("%w: name=%s", errs.ErrTemplateNotFound, name)
	}
	val, ok, err := try(def)
	if err != nil {
		return domain.TemplateCacheValue{}, domain.Language{}, err
	}
	if !ok {
		return domain.TemplateCacheValue{}, domain.Language{}, fmt.Errorf("%w: name=%s", errs.ErrTemplateNotFound, name)
	}
	return val, def, nil
}

// Rendered 渲染结果
type Rendered struct {
	Content string
	Title   string
}

// Render 模板没有标题时使用 fallbackTitle
func (r *Resolver) Render(val domain.TemplateCacheValue, placeholders map[string]string, fallbackTitle string) (Rendered, error) {
	if val.Body == nil {
		return Rendered{}, fmt.Errorf("%w: 模板 %s 未编译", errs.ErrTemplateNotFound, val.Template.Name)
	}
	if placeholders == nil {
		placeholders = map[string]string{}
	}
	content, err := val.Body.Render(placeholders)
	if err != nil {
		return Rendered{}, fmt.Errorf("渲染模板 %s 失败: %w", val.Template.Name, err)
	}
	res := Rendered{Content: content, Title: fallbackTitle}
	if val.Title != nil {
		res.Title, err = val.Title.Render(placeholders)
		if err != nil {
			return Rendered{}, fmt.Errorf("渲染模板 %s 标题失败: %w", val.Template.Name, err)
		}
	}
	return res, nil
}
