package dao

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/pkg/dao"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

// Template 本地化模板表
type Template struct {
	ID          int64                             `gorm:"primaryKey;autoIncrement;comment:'模板ID'"`
	Name        string                            `gorm:"type:VARCHAR(128);NOT NULL;uniqueIndex:uk_name_language,priority:1;comment:'模板名称'"`
	LanguageID  int16                             `gorm:"NOT NULL;uniqueIndex:uk_name_language,priority:2;comment:'语言ID'"`
	ContentType string                            `gorm:"type:ENUM('STRING','HTML');NOT NULL;DEFAULT:'STRING';comment:'内容类型'"`
	Content     string                            `gorm:"type:TEXT;NOT NULL;comment:'mustache格式的模板正文'"`
	Title       string                            `gorm:"type:VARCHAR(512);comment:'标题，可为空'"`
	Attributes  dao.JSONColumn[map[string]string] `gorm:"type:JSON;comment:'占位符序号到变量名的映射'"`
	MetaData    dao.JSONColumn[map[string]string] `gorm:"type:JSON;comment:'供应商模板ID、附件类型、交互按钮等'"`
	Active      bool                              `gorm:"NOT NULL;DEFAULT:true;index:idx_active"`
	Ctime       int64
	Utime       int64
}

// TableName 重命名表
func (Template) TableName() string {
	return "templates"
}

type TemplateDAO interface {
	// FindActive 按名称和语言获取启用中的模板
	FindActive(ctx context.Context, name string, languageID int16) (Template, error)
	// FindAllActive 获取全部启用中的模板，用于预热缓存
	FindAllActive(ctx context.Context) ([]Template, error)
}

type templateDAO struct {
	db *egorm.Component
}

func NewTemplateDAO(db *egorm.Component) TemplateDAO {
	return &templateDAO{db: db}
}

func (d *templateDAO) FindActive(ctx context.Context, name string, languageID int16) (Template, error) {
	var t Template
	err := d.db.WithContext(ctx).
		Where("name = ? AND language_id = ? AND active = ?", name, languageID, true).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Template{}, fmt.Errorf("%w: name = %s, languageID = %d", errs.ErrTemplateNotFound, name, languageID)
	}
	return t, err
}

func (d *templateDAO) FindAllActive(ctx context.Context) ([]Template, error) {
	var res []Template
	err := d.db.WithContext(ctx).Where("active = ?", true).Find(&res).Error
	return res, err
}
