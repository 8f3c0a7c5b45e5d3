package domain

import (
	"sort"
	"strconv"

	"github.com/cbroglie/mustache"
)

// ContentType 模板内容类型
type ContentType string

const (
	ContentTypeString ContentType = "STRING"
	ContentTypeHTML   ContentType = "HTML"
)

// 模板 MetaData 中约定的键
const (
	MetaKeyInteractiveAttributes = "interactiveAttributes"
	MetaKeyMediaType             = "mediaType"
	MetaKeyVendorTemplateID      = "vendorTemplateId"
	MetaKeyCategory              = "category"
)

// Template 本地化模板，(Name, LanguageID) 唯一
type Template struct {
	ID          int64
	Name        string
	LanguageID  int16
	ContentType ContentType
	Content     string // mustache 格式
	Title       string
	// Attributes 占位符序号 => 变量名，例如 {"0": "name", "1": "amount"}
	Attributes map[string]string
	// MetaData 供应商相关的元数据，原样透传给供应商
	MetaData map[string]string
	Active   bool
	// LanguageCode 不落库，创建供应商模板前由调用方填充
	LanguageCode string
}

// TemplateKey 模板缓存的组合键
type TemplateKey struct {
	Name       string
	LanguageID int16
}

func (t Template) Key() TemplateKey {
	return TemplateKey{Name: t.Name, LanguageID: t.LanguageID}
}

// OrderedAttributeNames 按序号升序返回变量名，序号无法解析的排在最后并按字典序
func (t Template) OrderedAttributeNames() []string {
	return OrderedAttributeNames(t.Attributes)
}

// VendorTemplateID 优先取供应商专属的模板ID，例如 vendorTemplateId.VENDOR_B
func (t Template) VendorTemplateID(v VendorType) string {
	if id, ok := t.MetaData[MetaKeyVendorTemplateID+"."+v.String()]; ok && id != "" {
		return id
	}
	return t.MetaData[MetaKeyVendorTemplateID]
}

func OrderedAttributeNames(attributes map[string]string) []string {
	type entry struct {
		idx  int
		ok   bool
		raw  string
		name string
	}
	entries := make([]entry, 0, len(attributes))
	for k, v := range attributes {
		idx, err := strconv.Atoi(k)
		entries = append(entries, entry{idx: idx, ok: err == nil, raw: k, name: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ok != entries[j].ok {
			return entries[i].ok
		}
		if entries[i].ok && entries[i].idx != entries[j].idx {
			return entries[i].idx < entries[j].idx
		}
		return entries[i].raw < entries[j].raw
	})
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.name)
	}
	return res
}

// TemplateCacheValue 缓存中的模板，正文和标题已经编译好
type TemplateCacheValue struct {
	Template Template
	Body     *mustache.Template
	Title    *mustache.Template // 模板没有标题时为 nil
}
