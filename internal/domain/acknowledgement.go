package domain

// DeliveryStatus 供应商回执状态
type DeliveryStatus string

const (
	DeliveryStatusSuccess   DeliveryStatus = "SUCCESS"
	DeliveryStatusFail      DeliveryStatus = "FAIL"
	DeliveryStatusUnknown   DeliveryStatus = "UNKNOWN"
	DeliveryStatusSubmitted DeliveryStatus = "SUBMITTED"
	DeliveryStatusView      DeliveryStatus = "VIEW"
	DeliveryStatusSent      DeliveryStatus = "SENT"
)

// DeliveryReport 归一化之后的供应商回执
type DeliveryReport struct {
	ExternalID         string
	DeliveredTimestamp int64 // 毫秒
	Status             DeliveryStatus
	Cause              string
	PhoneNumber        string
	ErrorCode          string
	FragmentCount      int
	VendorName         VendorType
}

// Acknowledgement 已发送消息的记录，回执按 (Vendor, ExternalID) 对账
type Acknowledgement struct {
	ID                 int64
	ReferenceID        string
	ExternalID         string
	Vendor             VendorType
	Channel            Channel
	MobileNumber       string
	TemplateName       string
	CampaignName       string
	Status             DeliveryStatus
	Cause              string
	ErrorCode          string
	FragmentCount      int
	DeliveredTimestamp int64
	Ctime              int64
	Utime              int64
}
