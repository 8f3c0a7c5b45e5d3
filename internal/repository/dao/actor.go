package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/communication-platform/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActorCommDetails 用户联系方式表
type ActorCommDetails struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	ActorID      int64  `gorm:"NOT NULL;uniqueIndex:uk_actor,priority:1;comment:'用户ID'"`
	ActorType    string `gorm:"type:VARCHAR(32);NOT NULL;uniqueIndex:uk_actor,priority:2;comment:'用户类型'"`
	MobileNumber string `gorm:"type:VARCHAR(20);NOT NULL;comment:'手机号'"`
	LanguageID   int16  `gorm:"NOT NULL;comment:'语言ID'"`
	Active       bool   `gorm:"NOT NULL;DEFAULT:true"`
	Ctime        int64
	Utime        int64
}

// TableName 重命名表
func (ActorCommDetails) TableName() string {
	return "actor_comm_details"
}

// ActorAppToken 用户推送token表
type ActorAppToken struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	ActorID            int64  `gorm:"NOT NULL;uniqueIndex:uk_actor_app,priority:1;comment:'用户ID'"`
	ActorType          string `gorm:"type:VARCHAR(32);NOT NULL;uniqueIndex:uk_actor_app,priority:2;comment:'用户类型'"`
	MobileAppDetailsID int64  `gorm:"NOT NULL;uniqueIndex:uk_actor_app,priority:3;comment:'mobile_app_details表ID'"`
	FcmToken           string `gorm:"type:VARCHAR(512);NOT NULL"`
	Active             bool   `gorm:"NOT NULL;DEFAULT:true;index:idx_active"`
	Ctime              int64
	Utime              int64
}

// TableName 重命名表
func (ActorAppToken) TableName() string {
	return "actor_app_tokens"
}

type ActorDAO interface {
	FindCommDetails(ctx context.Context, actorID int64, actorType string) (ActorCommDetails, error)
	// UpsertCommDetails 按 (actor_id, actor_type) 插入或更新
	UpsertCommDetails(ctx context.Context, d ActorCommDetails) error
	// FindActiveAppToken 在候选应用中查找最近更新的有效 token
	FindActiveAppToken(ctx context.Context, actorID int64, actorType string, appDetailIDs []int64) (ActorAppToken, error)
	// UpsertAppToken 按 (actor_id, actor_type, mobile_app_details_id) 插入或更新
	UpsertAppToken(ctx context.Context, t ActorAppToken) error
}

type actorDAO struct {
	db *egorm.Component
}

func NewActorDAO(db *egorm.Component) ActorDAO {
	return &actorDAO{db: db}
}

func (d *actorDAO) FindCommDetails(ctx context.Context, actorID int64, actorType string) (ActorCommDetails, error) {
	var res ActorCommDetails
	err := d.db.WithContext(ctx).
		Where("actor_id = ? AND actor_type = ? AND active = ?", actorID, actorType, true).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ActorCommDetails{}, fmt.Errorf("%w: actorID = %d, actorType = %s", errs.ErrActorDetailsNotFound, actorID, actorType)
	}
	return res, err
}

func (d *actorDAO) UpsertCommDetails(ctx context.Context, details ActorCommDetails) error {
	now := time.Now().UnixMilli()
	details.Ctime, details.Utime = now, now
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{"mobile_number", "language_id", "active", "utime"}),
	}).Create(&details).Error
}

func (d *actorDAO) FindActiveAppToken(ctx context.Context, actorID int64, actorType string, appDetailIDs []int64) (ActorAppToken, error) {
	if len(appDetailIDs) == 0 {
		return ActorAppToken{}, fmt.Errorf("%w: 没有候选应用", errs.ErrAppTokenOrDetailsNotFound)
	}
	var res ActorAppToken
	err := d.db.WithContext(ctx).
		Where("actor_id = ? AND actor_type = ? AND mobile_app_details_id IN ? AND active = ?",
			actorID, actorType, appDetailIDs, true).
		Order("utime DESC").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ActorAppToken{}, fmt.Errorf("%w: actorID = %d, actorType = %s", errs.ErrAppTokenOrDetailsNotFound, actorID, actorType)
	}
	return res, err
}

func (d *actorDAO) UpsertAppToken(ctx context.Context, token ActorAppToken) error {
	now := time.Now().UnixMilli()
	token.Ctime, token.Utime = now, now
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{"fcm_token", "active", "utime"}),
	}).Create(&token).Error
}
