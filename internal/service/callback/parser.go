package callback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
)

// vendorAStatus 供应商A直接回传 SUCCESS/FAIL/UNKNOWN，WhatsApp 回执额外有 SENT/READ
var vendorAStatus = map[string]domain.DeliveryStatus{
	"SUCCESS":   domain.DeliveryStatusSuccess,
	"DELIVERED": domain.DeliveryStatusSuccess,
	"FAIL":      domain.DeliveryStatusFail,
	"FAILED":    domain.DeliveryStatusFail,
	"UNKNOWN":   domain.DeliveryStatusUnknown,
	"SUBMITTED": domain.DeliveryStatusSubmitted,
	"SENT":      domain.DeliveryStatusSent,
	"READ":      domain.DeliveryStatusView,
}

var vendorBStatus = map[string]domain.DeliveryStatus{
	"DELIVERED":   domain.DeliveryStatusSuccess,
	"READ":        domain.DeliveryStatusView,
	"SENT":        domain.DeliveryStatusSent,
	"ACCEPTED":    domain.DeliveryStatusSubmitted,
	"SUBMITTED":   domain.DeliveryStatusSubmitted,
	"FAILED":      domain.DeliveryStatusFail,
	"UNDELIVERED": domain.DeliveryStatusFail,
	"REJECTED":    domain.DeliveryStatusFail,
	"EXPIRED":     domain.DeliveryStatusFail,
}

func mapStatus(table map[string]domain.DeliveryStatus, raw string) domain.DeliveryStatus {
	if s, ok := table[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return s
	}
	return domain.DeliveryStatusUnknown
}

// ParseVendorA 供应商A的回执是 query/form 参数，一次一条
func ParseVendorA(form url.Values) (domain.DeliveryReport, error) {
	externalID := form.Get("externalId")
	if externalID == "" {
		return domain.DeliveryReport{}, fmt.Errorf("%w: 回执缺少 externalId", errs.ErrInvalidParameter)
	}
	report := domain.DeliveryReport{
		ExternalID:  externalID,
		Status:      mapStatus(vendorAStatus, form.Get("status")),
		Cause:       form.Get("cause"),
		PhoneNumber: form.Get("phoneNo"),
		ErrorCode:   form.Get("errCode"),
		VendorName:  domain.VendorA,
	}
	if ts := form.Get("deliveredTS"); ts != "" {
		v, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return domain.DeliveryReport{}, fmt.Errorf("%w: deliveredTS=%s", errs.ErrInvalidParameter, ts)
		}
		report.DeliveredTimestamp = v
	}
	if n := form.Get("noOfFrags"); n != "" {
		v, err := strconv.Atoi(n)
		if err != nil {
			return domain.DeliveryReport{}, fmt.Errorf("%w: noOfFrags=%s", errs.ErrInvalidParameter, n)
		}
		report.FragmentCount = v
	}
	return report, nil
}

type vendorBEvent struct {
	Mid       string `json:"mid"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Recipient struct {
		To string `json:"to"`
	} `json:"recipient"`
	Error struct {
		Code   string `json:"code"`
		Reason string `json:"reason"`
	} `json:"error"`
	TotalFragments int `json:"totalFragments"`
}

// ParseVendorB 供应商B推送 JSON，可能是单个对象也可能是数组
func ParseVendorB(body []byte) ([]domain.DeliveryReport, error) {
	body = bytes.TrimSpace(body)
	var events []vendorBEvent
	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &events); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidParameter, err)
		}
	} else {
		var evt vendorBEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidParameter, err)
		}
		events = []vendorBEvent{evt}
	}
	res := make([]domain.DeliveryReport, 0, len(events))
	for _, evt := range events {
		if evt.Mid == "" {
			return nil, fmt.Errorf("%w: 回执缺少 mid", errs.ErrInvalidParameter)
		}
		res = append(res, domain.DeliveryReport{
			ExternalID:         evt.Mid,
			DeliveredTimestamp: evt.Timestamp,
			Status:             mapStatus(vendorBStatus, evt.Status),
			Cause:              evt.Error.Reason,
			PhoneNumber:        evt.Recipient.To,
			ErrorCode:          evt.Error.Code,
			FragmentCount:      evt.TotalFragments,
			VendorName:         domain.VendorB,
		})
	}
	return res, nil
}
