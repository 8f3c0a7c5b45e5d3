// Package vendorb JSON 风格的短信 / WhatsApp 供应商
package vendorb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/service/provider"
	"github.com/gofrs/uuid"
)

const (
	contentTypeText          = "TEXT"
	contentTypeTemplate      = "TEMPLATE"
	contentTypeMediaTemplate = "MEDIA_TEMPLATE"

	channelSMS      = "SMS"
	channelWhatsapp = "WABA"

	defaultLanguageTag = "en"
	countryCode        = "91"
)

type Config struct {
	SMSURL      string `yaml:"smsURL"`
	WhatsappURL string `yaml:"whatsappURL"`
	OptInURL    string `yaml:"optInURL"`
	TemplateURL string `yaml:"templateURL"`
	APIKey      string `yaml:"apiKey"`
	SMSSender   string `yaml:"smsSender"`
	// WhatsappSender 企业 WhatsApp 号码
	WhatsappSender string `yaml:"whatsappSender"`
	WebhookID      string `yaml:"webhookID"`
	// LanguageTags 内部语言编码到供应商语言标签，例如 HI_IN => hi
	LanguageTags map[string]string `yaml:"languageTags"`
}

var _ provider.Vendor = (*Vendor)(nil)

type Vendor struct {
	cfg   Config
	newID func() (string, error)
}

func NewVendor(cfg Config) *Vendor {
	return &Vendor{cfg: cfg, newID: newCorrelationID}
}

func newCorrelationID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (v *Vendor) Type() domain.VendorType {
	return domain.VendorB
}

// NormalizeMobile 10 位号码补国家码，13 位且首字符为符号的去掉符号，其余原样返回
func NormalizeMobile(mobile string) string {
	switch {
	case len(mobile) == 10:
		return countryCode + mobile
	case len(mobile) == 13 && !unicode.IsDigit(rune(mobile[0])):
		return mobile[1:]
	default:
		return mobile
	}
}

// LanguageTag 找不到映射时使用 en
func (v *Vendor) LanguageTag(lang domain.Language) string {
	if tag, ok := v.cfg.LanguageTags[lang.VendorKey()]; ok {
		return tag
	}
	return defaultLanguageTag
}

type message struct {
	Message  messageBody       `json:"message"`
	MetaData map[string]string `json:"metaData"`
}

type messageBody struct {
	Channel     string       `json:"channel"`
	Content     content      `json:"content"`
	Recipient   recipient    `json:"recipient"`
	Sender      sender       `json:"sender"`
	Preferences *preferences `json:"preferences,omitempty"`
}

type content struct {
	Type          string         `json:"type"`
	Text          string         `json:"text,omitempty"`
	Language      string         `json:"language,omitempty"`
	Template      *template      `json:"template,omitempty"`
	MediaTemplate *mediaTemplate `json:"mediaTemplate,omitempty"`
}

type template struct {
	TemplateID      string            `json:"templateId"`
	ParameterValues map[string]string `json:"parameterValues"`
}

type mediaTemplate struct {
	TemplateID            string            `json:"templateId"`
	Media                 *media            `json:"media,omitempty"`
	HeaderParameterValues map[string]string `json:"headerParameterValues,omitempty"`
	BodyParameterValues   map[string]string `json:"bodyParameterValues"`
	Buttons               *buttons          `json:"buttons,omitempty"`
}

type media struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
}

type buttons struct {
	QuickReplies []quickReply `json:"quickReplies,omitempty"`
	Actions      []action     `json:"actions,omitempty"`
}

type quickReply struct {
	Index   string `json:"index"`
	Payload string `json:"payload"`
}

type action struct {
	Type    string `json:"type"`
	Index   string `json:"index"`
	Payload string `json:"payload"`
}

type recipient struct {
	To            string    `json:"to"`
	RecipientType string    `json:"recipient_type"`
	Reference     reference `json:"reference"`
}

type reference struct {
	CustRef        string `json:"cust_ref"`
	MessageTag     string `json:"messageTag1,omitempty"`
	ConversationID string `json:"conversationId"`
}

type sender struct {
	From string `json:"from"`
}

type preferences struct {
	WebHookDNID string `json:"webHookDNId"`
}

func (v *Vendor) BuildSMSRequest(evt domain.DerivedEvent) (domain.VendorRequest, error) {
	msg, err := v.newMessage(evt, channelSMS, v.cfg.SMSSender)
	if err != nil {
		return domain.VendorRequest{}, err
	}
	msg.Message.Content = content{Type: contentTypeText, Text: evt.Content}
	return provider.NewJSONRequest(v.cfg.SMSURL, msg, v.headers())
}

func (v *Vendor) BuildWhatsAppMessageRequest(evt domain.DerivedEvent) (domain.VendorRequest, error) {
	msg, err := v.newMessage(evt, channelWhatsapp, v.cfg.WhatsappSender)
	if err != nil {
		return domain.VendorRequest{}, err
	}
	templateID := evt.Template.VendorTemplateID(domain.VendorB)
	params := v.parameterValues(evt)
	ia := provider.ParseInteractiveAttributes(evt.Template.MetaData)
	m := evt.Media()

	if m == nil && (ia == nil || ia.HeaderExample == "") {
		msg.Message.Content = content{
			Type:     contentTypeTemplate,
			Language: v.LanguageTag(evt.Language),
			Template: &template{TemplateID: templateID, ParameterValues: params},
		}
	} else {
		mt := &mediaTemplate{TemplateID: templateID, BodyParameterValues: params}
		if m != nil {
			mt.Media = &media{Type: string(m.MediaType), URL: m.URL, FileName: m.DocumentName}
		}
		if ia != nil && ia.HeaderExample != "" {
			mt.HeaderParameterValues = map[string]string{"0": evt.Placeholders[ia.HeaderExample]}
		}
		mt.Buttons = v.buttons(ia, evt.Placeholders)
		msg.Message.Content = content{
			Type:          contentTypeMediaTemplate,
			Language:      v.LanguageTag(evt.Language),
			MediaTemplate: mt,
		}
	}
	return provider.NewJSONRequest(v.cfg.WhatsappURL, msg, v.headers())
}

type optInRequest struct {
	Type       string           `json:"type"`
	Recipients []optInRecipient `json:"recipients"`
}

type optInRecipient struct {
	Recipient  string `json:"recipient"`
	Source     string `json:"source"`
	UserAgreed bool   `json:"user_agreed"`
}

func (v *Vendor) BuildWhatsAppOptInRequest(mobileNumber string, optType domain.OptType) (domain.VendorRequest, error) {
	if mobileNumber == "" {
		return domain.VendorRequest{}, errs.ErrMissingMobileNumber
	}
	typ := "optin"
	if optType == domain.OptOut {
		typ = "optout"
	}
	return provider.NewJSONRequest(v.cfg.OptInURL, optInRequest{
		Type: typ,
		Recipients: []optInRecipient{{
			Recipient:  NormalizeMobile(mobileNumber),
			Source:     "WEB",
			UserAgreed: optType != domain.OptOut,
		}},
	}, v.headers())
}

type templateCreation struct {
	Name       string      `json:"name"`
	Language   string      `json:"language"`
	Category   string      `json:"category"`
	Components []component `json:"components"`
}

type component struct {
	Type    string         `json:"type"`
	Format  string         `json:"format,omitempty"`
	Text    string         `json:"text,omitempty"`
	Example map[string]any `json:"example,omitempty"`
	Buttons []any          `json:"buttons,omitempty"`
}

func (v *Vendor) BuildWhatsAppTemplateCreationRequest(t domain.Template, mediaFileName string) (domain.VendorRequest, error) {
	ia := provider.ParseInteractiveAttributes(t.MetaData)
	comps := make([]component, 0, 4)
	if mediaFileName != "" {
		comps = append(comps, component{
			Type:    "HEADER",
			Format:  strings.ToUpper(t.MetaData[domain.MetaKeyMediaType]),
			Example: map[string]any{"header_handle": []string{mediaFileName}},
		})
	} else if ia != nil && ia.Header != "" {
		header := component{Type: "HEADER", Format: "TEXT", Text: ia.Header}
		if ia.HeaderExample != "" {
			header.Example = map[string]any{"header_text": []string{ia.HeaderExample}}
		}
		comps = append(comps, header)
	}
	body := component{Type: "BODY", Text: provider.NormalizeContent(t.Content, t.Attributes)}
	if names := t.OrderedAttributeNames(); len(names) > 0 {
		body.Example = map[string]any{"body_text": [][]string{names}}
	}
	comps = append(comps, body)
	if ia != nil && ia.Footer != "" {
		comps = append(comps, component{Type: "FOOTER", Text: ia.Footer})
	}
	if ia != nil && len(ia.Buttons) > 0 {
		bs := make([]any, 0, len(ia.Buttons))
		for _, b := range ia.Buttons {
			bs = append(bs, b)
		}
		comps = append(comps, component{Type: "BUTTONS", Buttons: bs})
	}
	return provider.NewJSONRequest(v.cfg.TemplateURL, templateCreation{
		Name:       t.Name,
		Language:   v.LanguageTag(domain.Language{Code: t.LanguageCode}),
		Category:   t.MetaData[domain.MetaKeyCategory],
		Components: comps,
	}, v.headers())
}

type sendResponse struct {
	MID        string `json:"mid"`
	StatusCode string `json:"statusCode"`
	StatusDesc string `json:"statusDesc"`
}

func (v *Vendor) ParseSendResponse(body []byte) (string, error) {
	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrVendorResponse, err)
	}
	if resp.MID == "" {
		return "", fmt.Errorf("%w: statusCode=%s, statusDesc=%s", errs.ErrVendorResponse, resp.StatusCode, resp.StatusDesc)
	}
	return resp.MID, nil
}

func (v *Vendor) newMessage(evt domain.DerivedEvent, channel, from string) (message, error) {
	mobile := evt.MobileNumber()
	if mobile == "" {
		return message{}, errs.ErrMissingMobileNumber
	}
	id, err := v.newID()
	if err != nil {
		return message{}, err
	}
	msg := message{
		Message: messageBody{
			Channel: channel,
			Recipient: recipient{
				To:            NormalizeMobile(mobile),
				RecipientType: "individual",
				Reference: reference{
					CustRef:        evt.ReferenceID,
					MessageTag:     evt.CampaignName,
					ConversationID: id,
				},
			},
			Sender: sender{From: from},
		},
		MetaData: map[string]string{"version": "v1.0.9"},
	}
	if v.cfg.WebhookID != "" {
		msg.Message.Preferences = &preferences{WebHookDNID: v.cfg.WebhookID}
	}
	return msg, nil
}

// parameterValues 供应商的参数从 0 开始编号
func (v *Vendor) parameterValues(evt domain.DerivedEvent) map[string]string {
	values := evt.OrderedPlaceholderValues()
	res := make(map[string]string, len(values))
	for i, val := range values {
		res[strconv.Itoa(i)] = val
	}
	return res
}

func (v *Vendor) buttons(ia *provider.InteractiveAttributes, placeholders map[string]string) *buttons {
	if ia == nil || len(ia.Buttons) == 0 {
		return nil
	}
	res := &buttons{}
	for i, b := range ia.Buttons {
		payload := b.Payload
		if p, ok := placeholders[b.Payload]; ok {
			payload = p
		}
		if ia.ButtonCategory == provider.ButtonCategoryQuickReply || b.Type == provider.ButtonTypeQuickReply {
			res.QuickReplies = append(res.QuickReplies, quickReply{Index: strconv.Itoa(i), Payload: payload})
			continue
		}
		if payload == "" {
			continue
		}
		res.Actions = append(res.Actions, action{Type: b.Type, Index: strconv.Itoa(i), Payload: payload})
	}
	return res
}

func (v *Vendor) headers() http.Header {
	h := http.Header{}
	h.Set("Authentication", "Bearer "+v.cfg.APIKey)
	return h
}
