package domain

// ChannelAttributes 渠道相关的发送属性，每个派生事件只会有一种
type ChannelAttributes interface {
	Channel() Channel
}

// SMSAttributes 短信属性
type SMSAttributes struct {
	MobileNumber string
}

func (SMSAttributes) Channel() Channel { return ChannelSMS }

// WhatsappAttributes WhatsApp 属性
type WhatsappAttributes struct {
	MobileNumber string
	Media        *Media
}

func (WhatsappAttributes) Channel() Channel { return ChannelWhatsapp }

// PushNotificationAttributes App 推送属性
type PushNotificationAttributes struct {
	FcmToken string
	App      MobileAppDetails
}

func (PushNotificationAttributes) Channel() Channel { return ChannelAppNotification }

// EmailAttributes 邮件属性
type EmailAttributes struct {
	Email       string
	ContentType ContentType
}

func (EmailAttributes) Channel() Channel { return ChannelEmail }

// DerivedEvent 针对单个渠道完全解析好的发送意图
type DerivedEvent struct {
	Event      CommunicationEvent
	Content    string
	Title      string
	Language   Language
	Template   Template
	Attributes ChannelAttributes
	Vendor     VendorType
	// Placeholders 渲染模板时使用的变量
	Placeholders      map[string]string
	CampaignName      string
	ReferenceID       string
	ParentReferenceID string
	RetryCount        int
}

func (d DerivedEvent) Channel() Channel {
	if d.Attributes == nil {
		return ""
	}
	return d.Attributes.Channel()
}

// OrderedPlaceholderValues 按模板 Attributes 的序号排列变量值
func (d DerivedEvent) OrderedPlaceholderValues() []string {
	names := d.Template.OrderedAttributeNames()
	res := make([]string, 0, len(names))
	for _, name := range names {
		res = append(res, d.Placeholders[name])
	}
	return res
}

// MobileNumber 短信和 WhatsApp 的接收号码
func (d DerivedEvent) MobileNumber() string {
	switch attr := d.Attributes.(type) {
	case SMSAttributes:
		return attr.MobileNumber
	case WhatsappAttributes:
		return attr.MobileNumber
	default:
		return ""
	}
}

// Media WhatsApp 附件
func (d DerivedEvent) Media() *Media {
	if attr, ok := d.Attributes.(WhatsappAttributes); ok {
		return attr.Media
	}
	return nil
}
