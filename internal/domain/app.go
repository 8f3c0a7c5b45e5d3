package domain

// AppType 移动应用类型
type AppType string

const (
	AppTypeAndroid AppType = "ANDROID"
	AppTypeIOS     AppType = "IOS"
	AppTypeWeb     AppType = "WEB"
)

func (a AppType) IsValid() bool {
	return a == AppTypeAndroid || a == AppTypeIOS || a == AppTypeWeb
}

// MobileAppDetails 移动应用元数据
type MobileAppDetails struct {
	ID        int64
	AppID     string
	AppType   AppType
	AfsAppID  int16 // 外部系统中的应用ID
	FcmAPIKey string
}

// AppKey 应用的组合键
type AppKey struct {
	AppID   string
	AppType AppType
}

func (m MobileAppDetails) Key() AppKey {
	return AppKey{AppID: m.AppID, AppType: m.AppType}
}
