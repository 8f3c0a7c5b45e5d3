package repository

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
)

// AcknowledgementRepository 发送记录
//
//go:generate mockgen -source=./acknowledgement.go -destination=./mocks/acknowledgement.mock.go -package=repomocks AcknowledgementRepository
type AcknowledgementRepository interface {
	Create(ctx context.Context, a domain.Acknowledgement) (domain.Acknowledgement, error)
	// UpdateDelivery 按 (Vendor, ExternalID) 更新，找不到返回 errs.ErrAcknowledgementNotFound
	UpdateDelivery(ctx context.Context, report domain.DeliveryReport) error
}

type acknowledgementRepository struct {
	dao dao.AcknowledgementDAO
}

func NewAcknowledgementRepository(d dao.AcknowledgementDAO) AcknowledgementRepository {
	return &acknowledgementRepository{dao: d}
}

func (r *acknowledgementRepository) Create(ctx context.Context, a domain.Acknowledgement) (domain.Acknowledgement, error) {
	created, err := r.dao.Create(ctx, dao.Acknowledgement{
		ReferenceID:  a.ReferenceID,
		ExternalID:   a.ExternalID,
		Vendor:       a.Vendor.String(),
		Channel:      a.Channel.String(),
		MobileNumber: a.MobileNumber,
		TemplateName: a.TemplateName,
		CampaignName: a.CampaignName,
		Status:       string(a.Status),
	})
	if err != nil {
		return domain.Acknowledgement{}, err
	}
	return r.toDomain(created), nil
}

func (r *acknowledgementRepository) UpdateDelivery(ctx context.Context, report domain.DeliveryReport) error {
	return r.dao.UpdateDelivery(ctx, dao.Acknowledgement{
		ExternalID:         report.ExternalID,
		Vendor:             report.VendorName.String(),
		Status:             string(report.Status),
		Cause:              report.Cause,
		ErrorCode:          report.ErrorCode,
		FragmentCount:      report.FragmentCount,
		DeliveredTimestamp: report.DeliveredTimestamp,
	})
}

func (r *acknowledgementRepository) toDomain(a dao.Acknowledgement) domain.Acknowledgement {
	return domain.Acknowledgement{
		ID:                 a.ID,
		ReferenceID:        a.ReferenceID,
		ExternalID:         a.ExternalID,
		Vendor:             domain.VendorType(a.Vendor),
		Channel:            domain.Channel(a.Channel),
		MobileNumber:       a.MobileNumber,
		TemplateName:       a.TemplateName,
		CampaignName:       a.CampaignName,
		Status:             domain.DeliveryStatus(a.Status),
		Cause:              a.Cause,
		ErrorCode:          a.ErrorCode,
		FragmentCount:      a.FragmentCount,
		DeliveredTimestamp: a.DeliveredTimestamp,
		Ctime:              a.Ctime,
		Utime:              a.Utime,
	}
}
