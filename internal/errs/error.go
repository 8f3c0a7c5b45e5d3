package errs

import (
	"errors"
)

// 校验错误，事件直接丢弃，不重试
var (
	ErrInvalidParameter     = errors.New("参数错误")
	ErrMissingTemplateName  = errors.New("缺少模板名称")
	ErrMissingActorIdentity = errors.New("缺少接收方标识")
	ErrIncompleteMediaData  = errors.New("附件信息不完整")
	ErrInvalidPushEvent     = errors.New("推送事件缺少 fcmToken/appId/appType")
	ErrEventExpired         = errors.New("事件已过期")
	ErrNoChannel            = errors.New("未指定发送渠道")
)

// 数据解析不到
var (
	ErrActorDetailsNotFound      = errors.New("用户联系方式不存在")
	ErrAppTokenOrDetailsNotFound = errors.New("用户推送token或应用信息不存在")
	ErrTemplateNotFound          = errors.New("模板不存在")
	ErrLanguageNotFound          = errors.New("语言不存在")
	ErrMobileAppNotFound         = errors.New("移动应用不存在")
	ErrAcknowledgementNotFound   = errors.New("发送记录不存在")
)

// 供应商相关
var (
	ErrNoVendorConfigured  = errors.New("渠道未配置供应商")
	ErrVendorUnsupported   = errors.New("未支持的供应商")
	ErrChannelUnsupported  = errors.New("未支持的渠道")
	ErrVendorRequestFailed = errors.New("供应商请求失败")
	ErrVendorResponse      = errors.New("供应商响应异常")
	ErrMissingMobileNumber = errors.New("缺少手机号")
)

var (
	ErrDeserialization = errors.New("消息反序列化失败")
	ErrDuplicateKey    = errors.New("主键或唯一索引冲突")
	ErrNoChannelSent   = errors.New("没有任何渠道发送成功")
)
