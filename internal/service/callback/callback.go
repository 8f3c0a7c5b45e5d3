// Package callback 处理供应商回执，按 (供应商, 外部ID) 更新发送记录
package callback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	ca "github.com/patrickmn/go-cache"
)

const defaultDedupWindow = 10 * time.Minute

type Service struct {
	acks   repository.AcknowledgementRepository
	seen   *ca.Cache
	logger *elog.Component
}

// NewService window 内重复的回执直接丢弃
func NewService(acks repository.AcknowledgementRepository, window time.Duration) *Service {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Service{
		acks:   acks,
		seen:   ca.New(window, 2*window),
		logger: elog.DefaultLogger,
	}
}

// Reconcile 找不到发送记录的回执只记日志
func (s *Service) Reconcile(ctx context.Context, report domain.DeliveryReport) error {
	key := dedupKey(report)
	if _, ok := s.seen.Get(key); ok {
		s.logger.Debug("重复的回执", elog.String("externalID", report.ExternalID))
		return nil
	}
	err := s.acks.UpdateDelivery(ctx, report)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrAcknowledgementNotFound):
		s.logger.Warn("回执找不到对应的发送记录",
			elog.String("vendor", report.VendorName.String()),
			elog.String("externalID", report.ExternalID))
	default:
		return err
	}
	s.seen.SetDefault(key, struct{}{})
	return nil
}

// ReconcileAll 单条失败不影响其他回执
func (s *Service) ReconcileAll(ctx context.Context, reports []domain.DeliveryReport) error {
	var failed int
	var lastErr error
	for _, r := range reports {
		if err := s.Reconcile(ctx, r); err != nil {
			s.logger.Error("处理回执失败", elog.FieldErr(err), elog.String("externalID", r.ExternalID))
			failed++
			lastErr = err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d 条回执处理失败: %w", failed, lastErr)
	}
	return nil
}

func dedupKey(r domain.DeliveryReport) string {
	return fmt.Sprintf("%s:%s:%s", r.VendorName, r.ExternalID, r.Status)
}
