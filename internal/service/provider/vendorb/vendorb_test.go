package vendorb

import (
	"encoding/json"
	"errors"
	"testing"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVendor() *Vendor {
	v := NewVendor(Config{
		SMSURL:         "https://b.example.com/sms",
		WhatsappURL:    "https://b.example.com/wa",
		OptInURL:       "https://b.example.com/optin",
		TemplateURL:    "https://b.example.com/template",
		APIKey:         "secret",
		SMSSender:      "AGRI",
		WhatsappSender: "911234567890",
		LanguageTags:   map[string]string{"HI_IN": "hi", "EN_IN": "en"},
	})
	v.newID = func() (string, error) { return "conv-1", nil }
	return v
}

func TestNormalizeMobile(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input string
		want  string
	}{
		{input: "9876543210", want: "919876543210"},
		{input: "+919876543210", want: "919876543210"},
		{input: "919876543210", want: "919876543210"},
		{input: "1234567890123", want: "1234567890123"},
		{input: "12345", want: "12345"},
		{input: "", want: ""},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NormalizeMobile(tc.input))
		})
	}
}

func TestVendor_LanguageTag(t *testing.T) {
	t.Parallel()
	v := newTestVendor()
	assert.Equal(t, "hi", v.LanguageTag(domain.Language{Code: "hi-in"}))
	assert.Equal(t, "en", v.LanguageTag(domain.Language{Code: "ta-in"}))
}

func decode(t *testing.T, req domain.VendorRequest) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", req.Headers.Get("Authentication"))
	var res map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &res))
	return res
}

func TestVendor_BuildSMSRequest(t *testing.T) {
	t.Parallel()
	v := newTestVendor()
	req, err := v.BuildSMSRequest(domain.DerivedEvent{
		Content:      "Hi Ram",
		ReferenceID:  "ref-1",
		CampaignName: "kharif",
		Attributes:   domain.SMSAttributes{MobileNumber: "9876543210"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://b.example.com/sms", req.URL)
	body := decode(t, req)
	msg := body["message"].(map[string]any)
	assert.Equal(t, "SMS", msg["channel"])
	assert.Equal(t, map[string]any{"type": "TEXT", "text": "Hi Ram"}, msg["content"])
	rcpt := msg["recipient"].(map[string]any)
	assert.Equal(t, "919876543210", rcpt["to"])
	assert.Equal(t, map[string]any{"cust_ref": "ref-1", "messageTag1": "kharif", "conversationId": "conv-1"}, rcpt["reference"])
	assert.Equal(t, map[string]any{"from": "AGRI"}, msg["sender"])
}

func TestVendor_BuildWhatsAppMessageRequest(t *testing.T) {
	t.Parallel()
	tpl := domain.Template{
		Name:       "payment",
		Attributes: map[string]string{"0": "name", "1": "amount"},
		MetaData:   map[string]string{domain.MetaKeyVendorTemplateID: "tpl-generic", "vendorTemplateId.VENDOR_B": "tpl-b"},
	}
	placeholders := map[string]string{"name": "Ram", "amount": "100", "offer": "Diwali"}

	testCases := []struct {
		name   string
		evt    domain.DerivedEvent
		assert func(t *testing.T, content map[string]any)
	}{
		{
			name: "普通模板",
			evt: domain.DerivedEvent{
				Template:     tpl,
				Placeholders: placeholders,
				Language:     domain.Language{Code: "hi-in"},
				Attributes:   domain.WhatsappAttributes{MobileNumber: "+919876543210"},
			},
			assert: func(t *testing.T, content map[string]any) {
				assert.Equal(t, "TEMPLATE", content["type"])
				assert.Equal(t, "hi", content["language"])
				assert.Equal(t, map[string]any{
					"templateId":      "tpl-b",
					"parameterValues": map[string]any{"0": "Ram", "1": "100"},
				}, content["template"])
			},
		},
		{
			name: "带附件",
			evt: domain.DerivedEvent{
				Template:     tpl,
				Placeholders: placeholders,
				Attributes: domain.WhatsappAttributes{MobileNumber: "9876543210", Media: &domain.Media{
					URL: "https://cdn/a.jpg", AccessType: "PUBLIC", MediaType: domain.MediaTypeImage,
				}},
			},
			assert: func(t *testing.T, content map[string]any) {
				assert.Equal(t, "MEDIA_TEMPLATE", content["type"])
				mt := content["mediaTemplate"].(map[string]any)
				assert.Equal(t, map[string]any{"type": "IMAGE", "url": "https://cdn/a.jpg"}, mt["media"])
				assert.Equal(t, map[string]any{"0": "Ram", "1": "100"}, mt["bodyParameterValues"])
				assert.Nil(t, content["template"])
			},
		},
		{
			name: "头部示例和按钮",
			evt: domain.DerivedEvent{
				Template: domain.Template{
					Attributes: tpl.Attributes,
					MetaData: map[string]string{
						domain.MetaKeyVendorTemplateID: "tpl-generic",
						domain.MetaKeyInteractiveAttributes: `{"headerExample":"offer","buttonCategory":"CALL_TO_ACTION",` +
							`"buttons":[{"type":"URL","text":"Open","payload":"name"},{"type":"PHONE_NUMBER","text":"Call"}]}`,
					},
				},
				Placeholders: placeholders,
				Attributes:   domain.WhatsappAttributes{MobileNumber: "9876543210"},
			},
			assert: func(t *testing.T, content map[string]any) {
				assert.Equal(t, "MEDIA_TEMPLATE", content["type"])
				mt := content["mediaTemplate"].(map[string]any)
				assert.Equal(t, "tpl-generic", mt["templateId"])
				assert.Equal(t, map[string]any{"0": "Diwali"}, mt["headerParameterValues"])
				assert.Equal(t, map[string]any{
					"actions": []any{map[string]any{"type": "URL", "index": "0", "payload": "Ram"}},
				}, mt["buttons"])
			},
		},
		{
			name: "快捷回复按钮",
			evt: domain.DerivedEvent{
				Template: domain.Template{
					MetaData: map[string]string{
						domain.MetaKeyInteractiveAttributes: `{"headerExample":"offer","buttonCategory":"QUICK_REPLY",` +
							`"buttons":[{"type":"QUICK_REPLY","text":"Yes","payload":"yes"},{"type":"QUICK_REPLY","text":"No","payload":"no"}]}`,
					},
				},
				Placeholders: placeholders,
				Attributes:   domain.WhatsappAttributes{MobileNumber: "9876543210"},
			},
			assert: func(t *testing.T, content map[string]any) {
				mt := content["mediaTemplate"].(map[string]any)
				assert.Equal(t, map[string]any{
					"quickReplies": []any{
						map[string]any{"index": "0", "payload": "yes"},
						map[string]any{"index": "1", "payload": "no"},
					},
				}, mt["buttons"])
			},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := newTestVendor()
			req, err := v.BuildWhatsAppMessageRequest(tc.evt)
			require.NoError(t, err)
			assert.Equal(t, "https://b.example.com/wa", req.URL)
			msg := decode(t, req)["message"].(map[string]any)
			assert.Equal(t, "WABA", msg["channel"])
			assert.Equal(t, "919876543210", msg["recipient"].(map[string]any)["to"])
			tc.assert(t, msg["content"].(map[string]any))
		})
	}
}

func TestVendor_BuildWhatsAppMessageRequestErrors(t *testing.T) {
	t.Parallel()
	v := newTestVendor()
	_, err := v.BuildWhatsAppMessageRequest(domain.DerivedEvent{Attributes: domain.WhatsappAttributes{}})
	assert.ErrorIs(t, err, errs.ErrMissingMobileNumber)

	v.newID = func() (string, error) { return "", errors.New("mock rand error") }
	_, err = v.BuildWhatsAppMessageRequest(domain.DerivedEvent{Attributes: domain.WhatsappAttributes{MobileNumber: "9876543210"}})
	assert.Error(t, err)
}

func TestVendor_BuildWhatsAppOptInRequest(t *testing.T) {
	t.Parallel()
	v := newTestVendor()
	req, err := v.BuildWhatsAppOptInRequest("9876543210", domain.OptIn)
	require.NoError(t, err)
	assert.Equal(t, "https://b.example.com/optin", req.URL)
	assert.JSONEq(t, `{"type":"optin","recipients":[{"recipient":"919876543210","source":"WEB","user_agreed":true}]}`, string(req.Body))
}

func TestVendor_BuildWhatsAppTemplateCreationRequest(t *testing.T) {
	t.Parallel()
	v := newTestVendor()
	req, err := v.BuildWhatsAppTemplateCreationRequest(domain.Template{
		Name:         "payment",
		LanguageCode: "hi-in",
		Content:      "Hi {{name}}, you paid {{amount}}",
		Attributes:   map[string]string{"0": "name", "1": "amount"},
		MetaData: map[string]string{
			domain.MetaKeyMediaType:             "image",
			domain.MetaKeyCategory:              "UTILITY",
			domain.MetaKeyInteractiveAttributes: `{"footer":"Reply STOP"}`,
		},
	}, "sample.jpg")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name":"payment","language":"hi","category":"UTILITY",
		"components":[
			{"type":"HEADER","format":"IMAGE","example":{"header_handle":["sample.jpg"]}},
			{"type":"BODY","text":"Hi {{1}}, you paid {{2}}","example":{"body_text":[["name","amount"]]}},
			{"type":"FOOTER","text":"Reply STOP"}
		]}`, string(req.Body))
}

func TestVendor_ParseSendResponse(t *testing.T) {
	t.Parallel()
	v := newTestVendor()
	id, err := v.ParseSendResponse([]byte(`{"mid":"m-1","statusCode":"200","statusDesc":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, "m-1", id)
	_, err = v.ParseSendResponse([]byte(`{"statusCode":"401","statusDesc":"unauthorized"}`))
	assert.ErrorIs(t, err, errs.ErrVendorResponse)
}
