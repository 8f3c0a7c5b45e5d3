package domain

// Channel 通知渠道
type Channel string

const (
	ChannelSMS             Channel = "SMS"              // 短信
	ChannelWhatsapp        Channel = "WHATSAPP"         // WhatsApp消息
	ChannelAppNotification Channel = "APP_NOTIFICATION" // App推送
	ChannelEmail           Channel = "EMAIL"            // 邮件
)

func (c Channel) String() string {
	return string(c)
}

func (c Channel) IsValid() bool {
	switch c {
	case ChannelSMS, ChannelWhatsapp, ChannelAppNotification, ChannelEmail:
		return true
	default:
		return false
	}
}

// RequiresVendor 该渠道发送前是否必须确定供应商
func (c Channel) RequiresVendor() bool {
	return c == ChannelSMS || c == ChannelWhatsapp
}
