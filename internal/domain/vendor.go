package domain

import (
	"net/http"
	"strings"
)

// VendorType 供应商类型，编译期确定，不支持动态扩展
type VendorType string

const (
	VendorA        VendorType = "VENDOR_A"
	VendorB        VendorType = "VENDOR_B"
	VendorFirebase VendorType = "FIREBASE"
)

func (v VendorType) String() string {
	return string(v)
}

func (v VendorType) IsValid() bool {
	switch v {
	case VendorA, VendorB, VendorFirebase:
		return true
	default:
		return false
	}
}

// ParseVendorType 大小写不敏感，无法识别时返回 false
func ParseVendorType(s string) (VendorType, bool) {
	v := VendorType(strings.ToUpper(strings.TrimSpace(s)))
	return v, v.IsValid()
}

// VendorRequest 发给供应商的请求描述，真正的网络调用由 httpx 完成
type VendorRequest struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// OptType WhatsApp 订阅类型
type OptType string

const (
	OptIn  OptType = "OPT_IN"
	OptOut OptType = "OPT_OUT"
)
