package provider

import (
	"fmt"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
)

// Vendor 把归一化的发送意图翻译成某个供应商的请求，只负责构造请求，不负责发送
//
//go:generate mockgen -source=./types.go -destination=./mocks/vendor.mock.go -package=vendormocks Vendor
type Vendor interface {
	Type() domain.VendorType
	BuildSMSRequest(evt domain.DerivedEvent) (domain.VendorRequest, error)
	BuildWhatsAppMessageRequest(evt domain.DerivedEvent) (domain.VendorRequest, error)
	BuildWhatsAppOptInRequest(mobileNumber string, optType domain.OptType) (domain.VendorRequest, error)
	// BuildWhatsAppTemplateCreationRequest mediaFileName 为非文本模板上传的示例文件
	BuildWhatsAppTemplateCreationRequest(template domain.Template, mediaFileName string) (domain.VendorRequest, error)
	// ParseSendResponse 从发送接口的响应中取出供应商的消息ID
	ParseSendResponse(body []byte) (string, error)
}

// Registry 按类型查找供应商
type Registry struct {
	vendors map[domain.VendorType]Vendor
}

func NewRegistry(vendors ...Vendor) *Registry {
	m := make(map[domain.VendorType]Vendor, len(vendors))
	for _, v := range vendors {
		m[v.Type()] = v
	}
	return &Registry{vendors: m}
}

func (r *Registry) Get(typ domain.VendorType) (Vendor, error) {
	v, ok := r.vendors[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrVendorUnsupported, typ)
	}
	return v, nil
}
