package template

import (
	"context"
	"errors"
	"testing"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/repository/cache/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hindi   = domain.Language{ID: 1, Code: "hi-in"}
	english = domain.Language{ID: 2, Code: "en-in"}
	marathi = domain.Language{ID: 3, Code: "mr-in"}
)

type mapTemplateCache map[domain.TemplateKey]domain.Template

func (m mapTemplateCache) Get(_ context.Context, key domain.TemplateKey) (domain.TemplateCacheValue, bool, error) {
	t, ok := m[key]
	if !ok {
		return domain.TemplateCacheValue{}, false, nil
	}
	val, err := local.Compile(t)
	return val, err == nil, err
}

type errTemplateCache struct{}

func (errTemplateCache) Get(context.Context, domain.TemplateKey) (domain.TemplateCacheValue, bool, error) {
	return domain.TemplateCacheValue{}, false, errors.New("mock db error")
}

type mapLanguageCache []domain.Language

func (m mapLanguageCache) GetByCode(_ context.Context, code string) (domain.Language, bool, error) {
	for _, l := range m {
		if l.Code == code {
			return l, true, nil
		}
	}
	return domain.Language{}, false, nil
}

func (m mapLanguageCache) GetByID(_ context.Context, id int16) (domain.Language, bool, error) {
	for _, l := range m {
		if l.ID == id {
			return l, true, nil
		}
	}
	return domain.Language{}, false, nil
}

func tpl(name string, lang domain.Language, content string) domain.Template {
	return domain.Template{Name: name, LanguageID: lang.ID, Content: content}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()
	languages := mapLanguageCache{hindi, english, marathi}

	testCases := []struct {
		name      string
		templates mapTemplateCache
		primary   *domain.Language
		secondary *domain.Language
		wantLang  domain.Language
		wantErr   error
	}{
		{
			name: "主语言命中",
			templates: mapTemplateCache{
				{Name: "X", LanguageID: 2}: tpl("X", english, "en"),
				{Name: "X", LanguageID: 3}: tpl("X", marathi, "mr"),
			},
			primary:   &english,
			secondary: &marathi,
			wantLang:  english,
		},
		{
			name: "主语言缺失，使用第二语言",
			templates: mapTemplateCache{
				{Name: "X", LanguageID: 3}: tpl("X", marathi, "mr"),
				{Name: "X", LanguageID: 1}: tpl("X", hindi, "hi"),
			},
			primary:   &english,
			secondary: &marathi,
			wantLang:  marathi,
		},
		{
			name: "主语言和第二语言都缺失，使用默认语言",
			templates: mapTemplateCache{
				{Name: "X", LanguageID: 1}: tpl("X", hindi, "hi"),
			},
			primary:   &english,
			secondary: &marathi,
			wantLang:  hindi,
		},
		{
			name: "没有主语言",
			templates: mapTemplateCache{
				{Name: "X", LanguageID: 1}: tpl("X", hindi, "hi"),
			},
			wantLang: hindi,
		},
		{
			name:      "全部缺失",
			templates: mapTemplateCache{},
			primary:   &english,
			secondary: &marathi,
			wantErr:   errs.ErrTemplateNotFound,
		},
		{
			name:      "主语言就是默认语言",
			templates: mapTemplateCache{},
			primary:   &hindi,
			wantErr:   errs.ErrTemplateNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(tc.templates, languages, "")
			val, lang, err := r.Resolve(context.Background(), "X", tc.primary, tc.secondary)
			assert.ErrorIs(t, err, tc.wantErr)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantLang, lang)
			assert.Equal(t, tc.wantLang.ID, val.Template.LanguageID)
		})
	}
}

func TestResolver_ResolveBackendError(t *testing.T) {
	t.Parallel()
	r := NewResolver(errTemplateCache{}, mapLanguageCache{hindi}, "hi-in")
	_, _, err := r.Resolve(context.Background(), "X", &english, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrTemplateNotFound)
}

func TestResolver_Render(t *testing.T) {
	t.Parallel()
	r := NewResolver(mapTemplateCache{}, mapLanguageCache{hindi}, "")

	withTitle, err := local.Compile(domain.Template{Name: "pay", Content: "Hi {{name}}, you paid {{amount}}", Title: "Payment of {{amount}}"})
	require.NoError(t, err)
	noTitle, err := local.Compile(domain.Template{Name: "hello", Content: "Hello"})
	require.NoError(t, err)

	placeholders := map[string]string{"name": "Ram", "amount": "100"}
	got, err := r.Render(withTitle, placeholders, "literal")
	require.NoError(t, err)
	assert.Equal(t, Rendered{Content: "Hi Ram, you paid 100", Title: "Payment of 100"}, got)

	again, err := r.Render(withTitle, placeholders, "literal")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	got, err = r.Render(noTitle, nil, "literal")
	require.NoError(t, err)
	assert.Equal(t, Rendered{Content: "Hello", Title: "literal"}, got)

	_, err = r.Render(domain.TemplateCacheValue{}, nil, "")
	assert.ErrorIs(t, err, errs.ErrTemplateNotFound)
}
