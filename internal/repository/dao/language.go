package dao

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

// Language 语言表
type Language struct {
	ID        int16  `gorm:"primaryKey;autoIncrement;comment:'语言ID'"`
	Code      string `gorm:"type:VARCHAR(16);NOT NULL;uniqueIndex:uk_code;comment:'语言编码，如hi-in'"`
	Name      string `gorm:"type:VARCHAR(64);NOT NULL;comment:'语言名称'"`
	IsUnicode bool   `gorm:"NOT NULL;DEFAULT:false;comment:'短信是否需要按unicode发送'"`
	Ctime     int64
	Utime     int64
}

// TableName 重命名表
func (Language) TableName() string {
	return "languages"
}

type LanguageDAO interface {
	FindByCode(ctx context.Context, code string) (Language, error)
	FindByID(ctx context.Context, id int16) (Language, error)
	FindAll(ctx context.Context) ([]Language, error)
}

type languageDAO struct {
	db *egorm.Component
}

func NewLanguageDAO(db *egorm.Component) LanguageDAO {
	return &languageDAO{db: db}
}

func (d *languageDAO) FindByCode(ctx context.Context, code string) (Language, error) {
	var l Language
	err := d.db.WithContext(ctx).Where("code = ?", code).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Language{}, fmt.Errorf("%w: code = %s", errs.ErrLanguageNotFound, code)
	}
	return l, err
}

func (d *languageDAO) FindByID(ctx context.Context, id int16) (Language, error) {
	var l Language
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Language{}, fmt.Errorf("%w: id = %d", errs.ErrLanguageNotFound, id)
	}
	return l, err
}

func (d *languageDAO) FindAll(ctx context.Context) ([]Language, error) {
	var res []Language
	err := d.db.WithContext(ctx).Find(&res).Error
	return res, err
}
