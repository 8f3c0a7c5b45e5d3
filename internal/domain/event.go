package domain

import (
	"strings"
	"time"
)

// MediaType 附件类型
type MediaType string

const (
	MediaTypeImage    MediaType = "IMAGE"
	MediaTypeDocument MediaType = "DOCUMENT"
	MediaTypeVideo    MediaType = "VIDEO"
	MediaTypeAudio    MediaType = "AUDIO"
)

// Media 消息附件
type Media struct {
	URL          string    `json:"url"`
	AccessType   string    `json:"accessType"`
	MediaType    MediaType `json:"mediaType"`
	DocumentName string    `json:"documentName"`
}

// Complete 附件信息是否完整，DOCUMENT 类型必须带文件名
func (m Media) Complete() bool {
	if m.URL == "" || m.AccessType == "" || m.MediaType == "" {
		return false
	}
	if m.MediaType == MediaTypeDocument && m.DocumentName == "" {
		return false
	}
	return true
}

// ActorDetails 事件中直接携带的用户信息
type ActorDetails struct {
	MobileNumber          string  `json:"mobileNumber"`
	Email                 string  `json:"email"`
	FcmToken              string  `json:"fcmToken"`
	AppID                 string  `json:"appId"`
	AppType               AppType `json:"appType"`
	LanguageCode          string  `json:"languageCode"`
	SecondaryLanguageCode string  `json:"secondaryLanguageCode"`
}

// HasContact 是否带了可以直接发送的联系方式
func (a *ActorDetails) HasContact() bool {
	return a != nil && (a.MobileNumber != "" || a.Email != "" || a.FcmToken != "")
}

// HasApp 是否指定了应用
func (a *ActorDetails) HasApp() bool {
	return a != nil && a.AppID != "" && a.AppType != ""
}

// Placeholder 模板变量
type Placeholder struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CommunicationEvent 上游投递的通知事件
type CommunicationEvent struct {
	ReceiverActorID   int64         `json:"receiverActorId"`
	ReceiverActorType ActorType     `json:"receiverActorType"`
	ActorDetails      *ActorDetails `json:"actorDetails,omitempty"`
	TemplateName      string        `json:"templateName"`
	Channels          []Channel     `json:"channels"`
	Media             *Media        `json:"media,omitempty"`
	Vendor            VendorType    `json:"vendor,omitempty"`
	Placeholders      []Placeholder `json:"placeholders"`
	SendAfter         int64         `json:"sendAfter"` // 秒级时间戳
	Expiry            int64         `json:"expiry"`    // 秒级时间戳，0 表示不过期
	CampaignName      string        `json:"campaignName"`
	ReferenceID       string        `json:"referenceId"`
	ParentReferenceID string        `json:"parentReferenceId"`
	ContentTitle      string        `json:"contentTitle"`
}

func (e CommunicationEvent) ActorKey() ActorKey {
	return ActorKey{ActorID: e.ReceiverActorID, ActorType: e.ReceiverActorType}
}

// HasActorIdentity 至少能定位到一个接收方
func (e CommunicationEvent) HasActorIdentity() bool {
	if e.ActorKey().IsValid() {
		return true
	}
	d := e.ActorDetails
	return d != nil && (d.MobileNumber != "" || d.Email != "" || d.FcmToken != "")
}

func (e CommunicationEvent) HasChannel(c Channel) bool {
	for _, ch := range e.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// Expired 过期时间等于当前时间不算过期
func (e CommunicationEvent) Expired(now time.Time) bool {
	return e.Expiry != 0 && e.Expiry < now.Unix()
}

// PlaceholderMap 同名变量后者覆盖前者
func (e CommunicationEvent) PlaceholderMap() map[string]string {
	res := make(map[string]string, len(e.Placeholders))
	for _, p := range e.Placeholders {
		res[p.Key] = p.Value
	}
	return res
}

// ParseChannel 大小写不敏感
func ParseChannel(s string) Channel {
	return Channel(strings.ToUpper(strings.TrimSpace(s)))
}
