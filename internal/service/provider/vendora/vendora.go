// Package vendora 表单参数风格的短信 / WhatsApp 供应商
package vendora

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/service/provider"
)

const (
	methodSendMessage      = "SendMessage"
	methodSendMediaMessage = "SendMediaMessage"
	methodOptIn            = "OPT_IN"
	methodOptOut           = "OPT_OUT"

	msgTypeText        = "TEXT"
	msgTypeUnicodeText = "UNICODE_TEXT"
	msgTypeHSM         = "HSM"

	apiVersion = "1.1"
)

type Config struct {
	SMSURL           string `yaml:"smsURL"`
	WhatsappURL      string `yaml:"whatsappURL"`
	TemplateURL      string `yaml:"templateURL"`
	SMSUserID        string `yaml:"smsUserID"`
	SMSPassword      string `yaml:"smsPassword"`
	WhatsappUserID   string `yaml:"whatsappUserID"`
	WhatsappPassword string `yaml:"whatsappPassword"`
	// SMSMask 短信发送方签名
	SMSMask string `yaml:"smsMask"`
}

var _ provider.Vendor = (*Vendor)(nil)

type Vendor struct {
	cfg     Config
	samples fs.FS
}

// NewVendor samples 为模板创建时上传的示例文件，为 nil 时使用内置的示例
func NewVendor(cfg Config, samples fs.FS) *Vendor {
	if samples == nil {
		samples = provider.Samples()
	}
	return &Vendor{cfg: cfg, samples: samples}
}

func (v *Vendor) Type() domain.VendorType {
	return domain.VendorA
}

func (v *Vendor) BuildSMSRequest(evt domain.DerivedEvent) (domain.VendorRequest, error) {
	mobile := evt.MobileNumber()
	if mobile == "" {
		return domain.VendorRequest{}, errs.ErrMissingMobileNumber
	}
	msgType := msgTypeText
	if evt.Language.IsUnicode {
		msgType = msgTypeUnicodeText
	}
	form := v.baseForm(v.cfg.SMSUserID, v.cfg.SMSPassword, methodSendMessage)
	form.Set("send_to", mobile)
	form.Set("msg", evt.Content)
	form.Set("msg_type", msgType)
	if v.cfg.SMSMask != "" {
		form.Set("mask", v.cfg.SMSMask)
	}
	return provider.NewFormRequest(v.cfg.SMSURL, form), nil
}

func (v *Vendor) BuildWhatsAppMessageRequest(evt domain.DerivedEvent) (domain.VendorRequest, error) {
	mobile := evt.MobileNumber()
	if mobile == "" {
		return domain.VendorRequest{}, errs.ErrMissingMobileNumber
	}
	var form url.Values
	if media := evt.Media(); media != nil {
		form = v.baseForm(v.cfg.WhatsappUserID, v.cfg.WhatsappPassword, methodSendMediaMessage)
		form.Set("msg_type", string(media.MediaType))
		form.Set("media_url", media.URL)
		form.Set("caption", evt.Content)
		if media.DocumentName != "" {
			form.Set("filename", media.DocumentName)
		}
	} else {
		form = v.baseForm(v.cfg.WhatsappUserID, v.cfg.WhatsappPassword, methodSendMessage)
		form.Set("msg_type", msgTypeHSM)
		form.Set("msg", evt.Content)
	}
	form.Set("send_to", mobile)
	if evt.Language.IsUnicode {
		form.Set("data_encoding", "Unicode_text")
	}

	if ia := provider.ParseInteractiveAttributes(evt.Template.MetaData); ia != nil {
		form.Set("isTemplate", "true")
		if ia.Header != "" {
			form.Set("header", ia.Header)
		}
		if ia.Footer != "" {
			form.Set("footer", ia.Footer)
		}
		for i, b := range ia.Buttons {
			if b.Type == provider.ButtonTypeURL && b.Payload != "" {
				form.Set(fmt.Sprintf("buttonUrlParam%d", i), evt.Placeholders[b.Payload])
			}
		}
	}
	return provider.NewFormRequest(v.cfg.WhatsappURL, form), nil
}

func (v *Vendor) BuildWhatsAppOptInRequest(mobileNumber string, optType domain.OptType) (domain.VendorRequest, error) {
	if mobileNumber == "" {
		return domain.VendorRequest{}, errs.ErrMissingMobileNumber
	}
	method := methodOptIn
	if optType == domain.OptOut {
		method = methodOptOut
	}
	form := v.baseForm(v.cfg.WhatsappUserID, v.cfg.WhatsappPassword, method)
	form.Set("phone_number", mobileNumber)
	form.Set("channel", "WHATSAPP")
	return provider.NewFormRequest(v.cfg.WhatsappURL, form), nil
}

// BuildWhatsAppTemplateCreationRequest 非文本模板需要附带示例文件，使用 multipart 上传
func (v *Vendor) BuildWhatsAppTemplateCreationRequest(template domain.Template, mediaFileName string) (domain.VendorRequest, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"userid", v.cfg.WhatsappUserID},
		{"password", v.cfg.WhatsappPassword},
		{"method", "create_whatsapp_hsm"},
		{"v", apiVersion},
		{"format", "json"},
		{"template_name", template.Name},
		{"language", template.LanguageCode},
		{"category", template.MetaData[domain.MetaKeyCategory]},
		{"template_type", templateType(template)},
		{"content", provider.NormalizeContent(template.Content, template.Attributes)},
	}
	if ia := provider.ParseInteractiveAttributes(template.MetaData); ia != nil {
		fields = append(fields, [2]string{"header", ia.Header}, [2]string{"footer", ia.Footer})
		if len(ia.Buttons) > 0 {
			buttons, err := json.Marshal(ia.Buttons)
			if err != nil {
				return domain.VendorRequest{}, err
			}
			fields = append(fields,
				[2]string{"button_category", ia.ButtonCategory},
				[2]string{"buttons", string(buttons)})
		}
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return domain.VendorRequest{}, err
		}
	}
	if mediaFileName != "" {
		if err := v.writeSample(w, mediaFileName); err != nil {
			return domain.VendorRequest{}, err
		}
	}
	if err := w.Close(); err != nil {
		return domain.VendorRequest{}, err
	}
	req := provider.NewFormRequest(v.cfg.TemplateURL, nil)
	req.Headers.Set("Content-Type", w.FormDataContentType())
	req.Body = buf.Bytes()
	return req, nil
}

type sendResponse struct {
	Response struct {
		ID      string `json:"id"`
		Phone   string `json:"phone"`
		Status  string `json:"status"`
		Details string `json:"details"`
	} `json:"response"`
}

func (v *Vendor) ParseSendResponse(body []byte) (string, error) {
	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrVendorResponse, err)
	}
	if !strings.EqualFold(resp.Response.Status, "success") || resp.Response.ID == "" {
		return "", fmt.Errorf("%w: status=%s, details=%s", errs.ErrVendorResponse, resp.Response.Status, resp.Response.Details)
	}
	return resp.Response.ID, nil
}

func (v *Vendor) baseForm(userID, password, method string) url.Values {
	form := url.Values{}
	form.Set("userid", userID)
	form.Set("password", password)
	form.Set("auth_scheme", "plain")
	form.Set("method", method)
	form.Set("v", apiVersion)
	form.Set("format", "json")
	return form
}

func (v *Vendor) writeSample(w *multipart.Writer, fileName string) error {
	data, err := fs.ReadFile(v.samples, fileName)
	if err != nil {
		return fmt.Errorf("读取示例文件 %s 失败: %w", fileName, err)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename="%s"`, fileName))
	h.Set("Content-Type", provider.MimeType(fileName))
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func templateType(t domain.Template) string {
	mt := strings.ToUpper(t.MetaData[domain.MetaKeyMediaType])
	if mt == "" {
		return "TEXT"
	}
	return mt
}
