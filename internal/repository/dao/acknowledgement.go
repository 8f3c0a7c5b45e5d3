package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/communication-platform/internal/errs"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry uint16 = 1062

// Acknowledgement 发送记录表，回执按 (vendor, external_id) 对账
type Acknowledgement struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	ReferenceID        string `gorm:"type:VARCHAR(64);NOT NULL;index:idx_reference_id;comment:'业务方传入或平台生成的引用ID'"`
	ExternalID         string `gorm:"type:VARCHAR(128);NOT NULL;uniqueIndex:uk_vendor_external,priority:2;comment:'供应商侧消息ID'"`
	Vendor             string `gorm:"type:VARCHAR(32);NOT NULL;uniqueIndex:uk_vendor_external,priority:1"`
	Channel            string `gorm:"type:ENUM('SMS','WHATSAPP','APP_NOTIFICATION','EMAIL');NOT NULL"`
	MobileNumber       string `gorm:"type:VARCHAR(20)"`
	TemplateName       string `gorm:"type:VARCHAR(128)"`
	CampaignName       string `gorm:"type:VARCHAR(128)"`
	Status             string `gorm:"type:ENUM('SUCCESS','FAIL','UNKNOWN','SUBMITTED','VIEW','SENT');NOT NULL;DEFAULT:'SUBMITTED'"`
	Cause              string `gorm:"type:VARCHAR(512)"`
	ErrorCode          string `gorm:"type:VARCHAR(64)"`
	FragmentCount      int
	DeliveredTimestamp int64
	Ctime              int64
	Utime              int64
}

// TableName 重命名表
func (Acknowledgement) TableName() string {
	return "acknowledgements"
}

type AcknowledgementDAO interface {
	Create(ctx context.Context, a Acknowledgement) (Acknowledgement, error)
	// UpdateDelivery 按 (vendor, external_id) 更新回执信息
	UpdateDelivery(ctx context.Context, a Acknowledgement) error
}

type acknowledgementDAO struct {
	db *egorm.Component
}

func NewAcknowledgementDAO(db *egorm.Component) AcknowledgementDAO {
	return &acknowledgementDAO{db: db}
}

func (d *acknowledgementDAO) Create(ctx context.Context, a Acknowledgement) (Acknowledgement, error) {
	now := time.Now().UnixMilli()
	a.Ctime, a.Utime = now, now
	err := d.db.WithContext(ctx).Create(&a).Error
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return Acknowledgement{}, fmt.Errorf("%w: vendor = %s, externalID = %s", errs.ErrDuplicateKey, a.Vendor, a.ExternalID)
		}
		return Acknowledgement{}, err
	}
	return a, nil
}

func (d *acknowledgementDAO) UpdateDelivery(ctx context.Context, a Acknowledgement) error {
	res := d.db.WithContext(ctx).Model(&Acknowledgement{}).
		Where("vendor = ? AND external_id = ?", a.Vendor, a.ExternalID).
		Updates(map[string]any{
			"status":              a.Status,
			"cause":               a.Cause,
			"error_code":          a.ErrorCode,
			"fragment_count":      a.FragmentCount,
			"delivered_timestamp": a.DeliveredTimestamp,
			"utime":               time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: vendor = %s, externalID = %s", errs.ErrAcknowledgementNotFound, a.Vendor, a.ExternalID)
	}
	return nil
}
