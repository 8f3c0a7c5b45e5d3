package communication

import (
	"fmt"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"google.golang.org/protobuf/encoding/protowire"
)

// CommunicationEvent 的字段编号，和上游的 proto 定义保持一致
const (
	fieldReceiverActorID   protowire.Number = 1
	fieldReceiverActorType protowire.Number = 2
	fieldActorDetails      protowire.Number = 3
	fieldTemplateName      protowire.Number = 4
	fieldChannels          protowire.Number = 5
	fieldMedia             protowire.Number = 6
	fieldVendor            protowire.Number = 7
	fieldPlaceholders      protowire.Number = 8
	fieldSendAfter         protowire.Number = 9
	fieldExpiry            protowire.Number = 10
	fieldCampaignName      protowire.Number = 11
	fieldReferenceID       protowire.Number = 12
	fieldParentReferenceID protowire.Number = 13
	fieldContentTitle      protowire.Number = 14
)

// ActorDetails
const (
	fieldMobileNumber          protowire.Number = 1
	fieldEmail                 protowire.Number = 2
	fieldFcmToken              protowire.Number = 3
	fieldAppID                 protowire.Number = 4
	fieldAppType               protowire.Number = 5
	fieldLanguageCode          protowire.Number = 6
	fieldSecondaryLanguageCode protowire.Number = 7
)

// Media
const (
	fieldMediaURL          protowire.Number = 1
	fieldMediaAccessType   protowire.Number = 2
	fieldMediaType         protowire.Number = 3
	fieldMediaDocumentName protowire.Number = 4
)

// Placeholder
const (
	fieldPlaceholderKey   protowire.Number = 1
	fieldPlaceholderValue protowire.Number = 2
)

// Marshal 零值字段不写
func Marshal(evt domain.CommunicationEvent) []byte {
	var b []byte
	b = appendVarint(b, fieldReceiverActorID, evt.ReceiverActorID)
	b = appendString(b, fieldReceiverActorType, string(evt.ReceiverActorType))
	if d := evt.ActorDetails; d != nil {
		var sub []byte
		sub = appendString(sub, fieldMobileNumber, d.MobileNumber)
		sub = appendString(sub, fieldEmail, d.Email)
		sub = appendString(sub, fieldFcmToken, d.FcmToken)
		sub = appendString(sub, fieldAppID, d.AppID)
		sub = appendString(sub, fieldAppType, string(d.AppType))
		sub = appendString(sub, fieldLanguageCode, d.LanguageCode)
		sub = appendString(sub, fieldSecondaryLanguageCode, d.SecondaryLanguageCode)
		b = appendMessage(b, fieldActorDetails, sub)
	}
	b = appendString(b, fieldTemplateName, evt.TemplateName)
	for _, ch := range evt.Channels {
		b = protowire.AppendTag(b, fieldChannels, protowire.BytesType)
		b = protowire.AppendString(b, ch.String())
	}
	if m := evt.Media; m != nil {
		var sub []byte
		sub = appendString(sub, fieldMediaURL, m.URL)
		sub = appendString(sub, fieldMediaAccessType, m.AccessType)
		sub = appendString(sub, fieldMediaType, string(m.MediaType))
		sub = appendString(sub, fieldMediaDocumentName, m.DocumentName)
		b = appendMessage(b, fieldMedia, sub)
	}
	b = appendString(b, fieldVendor, evt.Vendor.String())
	for _, p := range evt.Placeholders {
		var sub []byte
		sub = appendString(sub, fieldPlaceholderKey, p.Key)
		sub = appendString(sub, fieldPlaceholderValue, p.Value)
		b = appendMessage(b, fieldPlaceholders, sub)
	}
	b = appendVarint(b, fieldSendAfter, evt.SendAfter)
	b = appendVarint(b, fieldExpiry, evt.Expiry)
	b = appendString(b, fieldCampaignName, evt.CampaignName)
	b = appendString(b, fieldReferenceID, evt.ReferenceID)
	b = appendString(b, fieldParentReferenceID, evt.ParentReferenceID)
	b = appendString(b, fieldContentTitle, evt.ContentTitle)
	return b
}

// Unmarshal 不认识的字段直接跳过，渠道名大小写不敏感
func Unmarshal(data []byte) (domain.CommunicationEvent, error) {
	var evt domain.CommunicationEvent
	err := walk(data, func(num protowire.Number, typ protowire.Type, v []byte, n uint64) error {
		switch num {
		case fieldReceiverActorID:
			evt.ReceiverActorID = int64(n)
		case fieldReceiverActorType:
			evt.ReceiverActorType = domain.ActorType(v)
		case fieldActorDetails:
			d, err := unmarshalActorDetails(v)
			if err != nil {
				return err
			}
			evt.ActorDetails = &d
		case fieldTemplateName:
			evt.TemplateName = string(v)
		case fieldChannels:
			evt.Channels = append(evt.Channels, domain.ParseChannel(string(v)))
		case fieldMedia:
			m, err := unmarshalMedia(v)
			if err != nil {
				return err
			}
			evt.Media = &m
		case fieldVendor:
			if vendor, ok := domain.ParseVendorType(string(v)); ok {
				evt.Vendor = vendor
			}
		case fieldPlaceholders:
			p, err := unmarshalPlaceholder(v)
			if err != nil {
				return err
			}
			evt.Placeholders = append(evt.Placeholders, p)
		case fieldSendAfter:
			evt.SendAfter = int64(n)
		case fieldExpiry:
			evt.Expiry = int64(n)
		case fieldCampaignName:
			evt.CampaignName = string(v)
		case fieldReferenceID:
			evt.ReferenceID = string(v)
		case fieldParentReferenceID:
			evt.ParentReferenceID = string(v)
		case fieldContentTitle:
			evt.ContentTitle = string(v)
		}
		return nil
	}, map[protowire.Number]bool{
		fieldReceiverActorID: true,
		fieldSendAfter:       true,
		fieldExpiry:          true,
	})
	if err != nil {
		return domain.CommunicationEvent{}, err
	}
	return evt, nil
}

func unmarshalActorDetails(data []byte) (domain.ActorDetails, error) {
	var d domain.ActorDetails
	err := walk(data, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) error {
		switch num {
		case fieldMobileNumber:
			d.MobileNumber = string(v)
		case fieldEmail:
			d.Email = string(v)
		case fieldFcmToken:
			d.FcmToken = string(v)
		case fieldAppID:
			d.AppID = string(v)
		case fieldAppType:
			d.AppType = domain.AppType(v)
		case fieldLanguageCode:
			d.LanguageCode = string(v)
		case fieldSecondaryLanguageCode:
			d.SecondaryLanguageCode = string(v)
		}
		return nil
	}, nil)
	return d, err
}

func unmarshalMedia(data []byte) (domain.Media, error) {
	var m domain.Media
	err := walk(data, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) error {
		switch num {
		case fieldMediaURL:
			m.URL = string(v)
		case fieldMediaAccessType:
			m.AccessType = string(v)
		case fieldMediaType:
			m.MediaType = domain.MediaType(v)
		case fieldMediaDocumentName:
			m.DocumentName = string(v)
		}
		return nil
	}, nil)
	return m, err
}

func unmarshalPlaceholder(data []byte) (domain.Placeholder, error) {
	var p domain.Placeholder
	err := walk(data, func(num protowire.Number, _ protowire.Type, v []byte, _ uint64) error {
		switch num {
		case fieldPlaceholderKey:
			p.Key = string(v)
		case fieldPlaceholderValue:
			p.Value = string(v)
		}
		return nil
	}, nil)
	return p, err
}

// walk 逐个字段回调。varints 里的字段必须是 varint，其余字段必须是 bytes，
// 类型对不上或者 fixed32/fixed64/group 的字段直接跳过
func walk(data []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, n uint64) error,
	varints map[protowire.Number]bool) error {
	for len(data) > 0 {
		num, typ, l := protowire.ConsumeTag(data)
		if l < 0 {
			return fmt.Errorf("%w: %w", errs.ErrDeserialization, protowire.ParseError(l))
		}
		data = data[l:]

		var (
			v []byte
			n uint64
		)
		switch typ {
		case protowire.VarintType:
			n, l = protowire.ConsumeVarint(data)
		case protowire.BytesType:
			v, l = protowire.ConsumeBytes(data)
		default:
			l = protowire.ConsumeFieldValue(num, typ, data)
			if l < 0 {
				return fmt.Errorf("%w: %w", errs.ErrDeserialization, protowire.ParseError(l))
			}
			data = data[l:]
			continue
		}
		if l < 0 {
			return fmt.Errorf("%w: %w", errs.ErrDeserialization, protowire.ParseError(l))
		}
		data = data[l:]

		if varints[num] != (typ == protowire.VarintType) {
			continue
		}
		if err := fn(num, typ, v, n); err != nil {
			return err
		}
	}
	return nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}
