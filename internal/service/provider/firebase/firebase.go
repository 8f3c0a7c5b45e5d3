// Package firebase App 推送请求
package firebase

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/service/provider"
)

const DefaultURL = "https://fcm.googleapis.com/fcm/send"

type Config struct {
	URL string `yaml:"url"`
}

type Builder struct {
	url string
}

func NewBuilder(cfg Config) *Builder {
	u := cfg.URL
	if u == "" {
		u = DefaultURL
	}
	return &Builder{url: u}
}

func (b *Builder) Type() domain.VendorType {
	return domain.VendorFirebase
}

type pushMessage struct {
	To           string            `json:"to"`
	Notification notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// BuildPushRequest 使用应用自己的 fcmApiKey 鉴权
func (b *Builder) BuildPushRequest(evt domain.DerivedEvent) (domain.VendorRequest, error) {
	attr, ok := evt.Attributes.(domain.PushNotificationAttributes)
	if !ok || attr.FcmToken == "" || attr.App.FcmAPIKey == "" {
		return domain.VendorRequest{}, fmt.Errorf("%w: 缺少 fcmToken 或 fcmApiKey", errs.ErrInvalidPushEvent)
	}
	data := map[string]string{
		"referenceId":  evt.ReferenceID,
		"templateName": evt.Template.Name,
	}
	if evt.CampaignName != "" {
		data["campaignName"] = evt.CampaignName
	}
	h := http.Header{}
	h.Set("Authorization", "key="+attr.App.FcmAPIKey)
	return provider.NewJSONRequest(b.url, pushMessage{
		To:           attr.FcmToken,
		Notification: notification{Title: evt.Title, Body: evt.Content},
		Data:         data,
	}, h)
}

type pushResponse struct {
	MulticastID int64 `json:"multicast_id"`
	Success     int   `json:"success"`
	Failure     int   `json:"failure"`
	Results     []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// ParseSendResponse 返回 FCM 的 message_id
func (b *Builder) ParseSendResponse(body []byte) (string, error) {
	var resp pushResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrVendorResponse, err)
	}
	if resp.Success == 0 || len(resp.Results) == 0 || resp.Results[0].MessageID == "" {
		cause := ""
		if len(resp.Results) > 0 {
			cause = resp.Results[0].Error
		}
		return "", fmt.Errorf("%w: fcm error=%s", errs.ErrVendorResponse, cause)
	}
	return resp.Results[0].MessageID, nil
}
