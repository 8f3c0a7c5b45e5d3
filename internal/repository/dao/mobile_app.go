package dao

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

// MobileAppDetails 移动应用表
type MobileAppDetails struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;comment:'应用ID'"`
	AppID     string `gorm:"type:VARCHAR(128);NOT NULL;uniqueIndex:uk_app,priority:1;comment:'应用包名'"`
	AppType   string `gorm:"type:ENUM('ANDROID','IOS','WEB');NOT NULL;uniqueIndex:uk_app,priority:2;comment:'应用类型'"`
	AfsAppID  int16  `gorm:"NOT NULL;uniqueIndex:uk_afs_app_id;comment:'外部系统中的应用ID'"`
	FcmAPIKey string `gorm:"type:VARCHAR(512);NOT NULL;comment:'FCM服务端密钥'"`
	Ctime     int64
	Utime     int64
}

// TableName 重命名表
func (MobileAppDetails) TableName() string {
	return "mobile_app_details"
}

type MobileAppDAO interface {
	FindByID(ctx context.Context, id int64) (MobileAppDetails, error)
	FindByAfsAppID(ctx context.Context, afsAppID int16) (MobileAppDetails, error)
	FindByAppKey(ctx context.Context, appID, appType string) (MobileAppDetails, error)
	FindAll(ctx context.Context) ([]MobileAppDetails, error)
}

type mobileAppDAO struct {
	db *egorm.Component
}

func NewMobileAppDAO(db *egorm.Component) MobileAppDAO {
	return &mobileAppDAO{db: db}
}

func (d *mobileAppDAO) FindByID(ctx context.Context, id int64) (MobileAppDetails, error) {
	return d.first(ctx, "id = ?", id)
}

func (d *mobileAppDAO) FindByAfsAppID(ctx context.Context, afsAppID int16) (MobileAppDetails, error) {
	return d.first(ctx, "afs_app_id = ?", afsAppID)
}

func (d *mobileAppDAO) FindByAppKey(ctx context.Context, appID, appType string) (MobileAppDetails, error) {
	return d.first(ctx, "app_id = ? AND app_type = ?", appID, appType)
}

func (d *mobileAppDAO) FindAll(ctx context.Context) ([]MobileAppDetails, error) {
	var res []MobileAppDetails
	err := d.db.WithContext(ctx).Find(&res).Error
	return res, err
}

func (d *mobileAppDAO) first(ctx context.Context, query string, args ...any) (MobileAppDetails, error) {
	var m MobileAppDetails
	err := d.db.WithContext(ctx).Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MobileAppDetails{}, fmt.Errorf("%w: %s %v", errs.ErrMobileAppNotFound, query, args)
	}
	return m, err
}
