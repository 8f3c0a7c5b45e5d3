package domain

import "strings"

// Language 语言，不可变的参考数据
type Language struct {
	ID        int16
	Code      string // 例如 hi-in
	Name      string
	IsUnicode bool
}

// VendorKey 供应商语言映射表使用的键，hi-in => HI_IN
func (l Language) VendorKey() string {
	return strings.ToUpper(strings.ReplaceAll(l.Code, "-", "_"))
}

// NormalizeLanguageCode 统一语言编码的格式
func NormalizeLanguageCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
