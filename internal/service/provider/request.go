package provider

import (
	"encoding/json"
	"net/http"
	"net/url"

	"gitee.com/flycash/communication-platform/internal/domain"
)

func NewFormRequest(endpoint string, form url.Values) domain.VendorRequest {
	return domain.VendorRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: http.Header{"Content-Type": []string{"application/x-www-form-urlencoded"}},
		Body:    []byte(form.Encode()),
	}
}

func NewJSONRequest(endpoint string, payload any, headers http.Header) (domain.VendorRequest, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.VendorRequest{}, err
	}
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")
	return domain.VendorRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: h,
		Body:    body,
	}, nil
}
