package web

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/service/derivation"
)

// Result 所有接口统一的响应体
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Processor 同步执行派生流水线
type Processor interface {
	Process(ctx context.Context, evt domain.CommunicationEvent) derivation.Result
}

// Reconciler 由 callback.Service 实现
type Reconciler interface {
	Reconcile(ctx context.Context, report domain.DeliveryReport) error
	ReconcileAll(ctx context.Context, reports []domain.DeliveryReport) error
}

type OptInReq struct {
	Vendor       string         `json:"vendor"`
	MobileNumber string         `json:"mobileNumber"`
	OptType      domain.OptType `json:"optType"`
}

type CreateTemplateReq struct {
	Vendor       string `json:"vendor"`
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode"`
}

type VendorResp struct {
	Vendor     string `json:"vendor"`
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}
