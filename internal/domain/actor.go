package domain

// ActorType 用户类型
type ActorType string

const (
	ActorTypeFarmer   ActorType = "FARMER"
	ActorTypeDealer   ActorType = "DEALER"
	ActorTypeEmployee ActorType = "EMPLOYEE"
	ActorTypeUser     ActorType = "USER"
)

// ActorKey 用户唯一标识
type ActorKey struct {
	ActorID   int64
	ActorType ActorType
}

func (k ActorKey) IsValid() bool {
	return k.ActorID > 0 && k.ActorType != ""
}

// ActorCommunicationDetails 用户的联系方式与语言偏好
type ActorCommunicationDetails struct {
	ActorID      int64
	ActorType    ActorType
	MobileNumber string
	LanguageID   int16
	Active       bool
}

// ActorAppToken 用户在某个应用上的推送 token
type ActorAppToken struct {
	ID                 int64
	ActorID            int64
	ActorType          ActorType
	MobileAppDetailsID int64
	FcmToken           string
	Active             bool
}

// ActorEventAction 用户事件动作
type ActorEventAction string

const (
	ActorEventCreate ActorEventAction = "CREATE"
	ActorEventUpdate ActorEventAction = "UPDATE"
)

// ActorAppTokenEvent 用户 token 变更事件
type ActorAppTokenEvent struct {
	ActorID   int64            `json:"actorId"`
	ActorType ActorType        `json:"actorType"`
	AfsAppID  int16            `json:"appId"`
	FcmToken  string           `json:"fcmToken"`
	Active    bool             `json:"active"`
	Action    ActorEventAction `json:"action"`
}

// ActorCommDetailsEvent 用户联系方式变更事件
type ActorCommDetailsEvent struct {
	ActorID      int64            `json:"actorId"`
	ActorType    ActorType        `json:"actorType"`
	MobileNumber string           `json:"mobileNumber"`
	LanguageCode string           `json:"languageCode"`
	Active       bool             `json:"active"`
	Action       ActorEventAction `json:"action"`
}
