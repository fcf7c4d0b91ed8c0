package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200
	// MaxFilenameLength 上传文件名最大长度
	MaxFilenameLength = 100
	// MaxResumeLength 简历内容最大长度
	MaxResumeLength = 150
)

// piiKeywords 属性名包含这些关键字时值需要掩码
var piiKeywords = []string{
	"email", "phone", "password", "address", "name", "location",
	"linkedin", "github", "secret", "token", "api_key",
	"姓名", "地址", "电话", "邮箱",
}

// SafeAttributeValue 敏感属性掩码，其余按 maxLength 截断
func SafeAttributeValue(name, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for _, keyword := range piiKeywords {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 保留首尾少量字符，其余替换为 *
//
//	"张三" -> "张*"，"王小明" -> "王*明"，"13812345678" -> "13*******78"
func MaskPII(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	n := len(runes)
	switch {
	case n <= 1:
		return "*"
	case n == 2:
		return string(runes[:1]) + "*"
	case n <= 4:
		return string(runes[:1]) + strings.Repeat("*", n-2) + string(runes[n-1:])
	default:
		return string(runes[:2]) + strings.Repeat("*", n-4) + string(runes[n-2:])
	}
}

// TruncateString 超长时保留首尾，中间以 ... 连接
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	half := max((maxLength-3)/2, 1)
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeFilename 上传文件名可能包含候选人姓名，先截断
func SafeFilename(filename string) string {
	return TruncateString(filename, MaxFilenameLength)
}

// SafeResumeContent 简历正文只保留开头结尾的片段
func SafeResumeContent(content string) string {
	return TruncateString(content, MaxResumeLength)
}
