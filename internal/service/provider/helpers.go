package provider

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"gitee.com/flycash/communication-platform/internal/domain"
	"github.com/gotomicro/ego/core/elog"
)

//go:embed samples
var samples embed.FS

// Samples 模板创建时上传的示例文件
func Samples() fs.FS {
	sub, _ := fs.Sub(samples, "samples")
	return sub
}

// NormalizeContent 把模板中的具名占位符换成从 1 开始的序号，
// 例如 attributes {"0":"name","1":"amount"} 下 "Hi {{name}}" => "Hi {{1}}"。
// 只扫描一遍，替换出来的序号不会再被当成变量名
func NormalizeContent(content string, attributes map[string]string) string {
	positions := make(map[string]int, len(attributes))
	names := make([]string, 0, len(attributes))
	for i, name := range domain.OrderedAttributeNames(attributes) {
		if name == "" {
			continue
		}
		if _, ok := positions[name]; ok {
			continue
		}
		positions[name] = i + 1
		names = append(names, regexp.QuoteMeta(name))
	}
	if len(names) == 0 {
		return content
	}
	re := regexp.MustCompile(`\{\{\{?\s*(` + strings.Join(names, "|") + `)\s*\}?\}\}`)
	return re.ReplaceAllStringFunc(content, func(m string) string {
		return fmt.Sprintf("{{%d}}", positions[re.FindStringSubmatch(m)[1]])
	})
}

// 按钮分类
const (
	ButtonCategoryQuickReply   = "QUICK_REPLY"
	ButtonCategoryCallToAction = "CALL_TO_ACTION"
)

// 按钮类型
const (
	ButtonTypeQuickReply  = "QUICK_REPLY"
	ButtonTypeURL         = "URL"
	ButtonTypePhoneNumber = "PHONE_NUMBER"
)

type Button struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	URL         string `json:"url,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

// InteractiveAttributes WhatsApp 富消息的头部、尾部和按钮
type InteractiveAttributes struct {
	Header         string   `json:"header,omitempty"`
	Footer         string   `json:"footer,omitempty"`
	ButtonCategory string   `json:"buttonCategory,omitempty"`
	Buttons        []Button `json:"buttons,omitempty"`
	HeaderExample  string   `json:"headerExample,omitempty"`
}

func (a *InteractiveAttributes) Empty() bool {
	return a == nil || (a.Header == "" && a.Footer == "" && len(a.Buttons) == 0 && a.HeaderExample == "")
}

// ParseInteractiveAttributes 解析失败只记录日志，按没有富消息属性处理
func ParseInteractiveAttributes(metaData map[string]string) *InteractiveAttributes {
	raw := strings.TrimSpace(metaData[domain.MetaKeyInteractiveAttributes])
	if raw == "" {
		return nil
	}
	var attrs InteractiveAttributes
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		elog.DefaultLogger.Warn("解析 interactiveAttributes 失败", elog.FieldErr(err), elog.String("raw", raw))
		return nil
	}
	if attrs.Empty() {
		return nil
	}
	return &attrs
}

// SampleFileName 媒体类型对应的示例文件，文本模板返回空
func SampleFileName(mediaType string) string {
	switch domain.MediaType(strings.ToUpper(strings.TrimSpace(mediaType))) {
	case domain.MediaTypeImage:
		return "sample.jpg"
	case domain.MediaTypeVideo:
		return "sample.mp4"
	case domain.MediaTypeDocument:
		return "sample.pdf"
	case domain.MediaTypeAudio:
		return "sample.mp3"
	default:
		return ""
	}
}

const DefaultMimeType = "application/octet-stream"

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".3gp":  "video/3gpp",
	".pdf":  "application/pdf",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".aac":  "audio/aac",
	".amr":  "audio/amr",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
}

// MimeType 按扩展名判断，无法识别时返回 application/octet-stream
func MimeType(fileName string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(fileName))]; ok {
		return t
	}
	return DefaultMimeType
}
