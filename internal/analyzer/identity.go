package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-parser-go/internal/types"
)

// 身份信息各项命中时对置信度的贡献
const (
	identityEmailWeight    = 0.3
	identityPhoneWeight    = 0.2
	identityNameWeight     = 0.3
	identityLocationWeight = 0.2

	nameScanLines  = 5
	minPhoneDigits = 10
)

var (
	emailPattern     = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern     = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	phoneStripper    = regexp.MustCompile(`[^\d+]`)
	urlPattern       = regexp.MustCompile(`https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+`)
	linkedInPattern  = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)
	gitHubPattern    = regexp.MustCompile(`github\.com/[\w-]+`)
	nameStopKeywords = []string{"phone", "email", "linkedin", "github", "summary", "experience"}

	// 地点按精确度从高到低尝试，只在单行内匹配
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z][A-Za-z]*(?:[ \t]+[A-Z][A-Za-z]*)*,[ \t]*\w+,[ \t]*\w+,[ \t]*\d+`), // City, State, Country, Zip
		regexp.MustCompile(`[A-Z][A-Za-z]*(?:[ \t]+[A-Z][A-Za-z]*)*,[ \t]*\w+,[ \t]*\w+`),          // City, State, Country
		regexp.MustCompile(`[A-Z][A-Za-z]*(?:[ \t]+[A-Z][A-Za-z]*)*,[ \t]*\w+`),                    // City, State
	}
)

// ExtractIdentity 抽取姓名、联系方式、社交链接与所在地。
// 置信度为各命中项贡献之和，不做截断。
func ExtractIdentity(text string) (types.PersonalInfo, float64) {
	var info types.PersonalInfo
	if strings.TrimSpace(text) == "" {
		return info, 0
	}

	confidence := 0.0

	if email := emailPattern.FindString(text); email != "" {
		info.Email = email
		confidence += identityEmailWeight
	}

	if phone, ok := findPhone(text); ok {
		info.Phone = phone
		confidence += identityPhoneWeight
	}

	if link := linkedInPattern.FindString(text); link != "" {
		info.LinkedIn = "https://" + link
	}
	if link := gitHubPattern.FindString(text); link != "" {
		info.GitHub = "https://" + link
	}
	for _, u := range urlPattern.FindAllString(text, -1) {
		if !strings.Contains(u, "linkedin") && !strings.Contains(u, "github") {
			info.Portfolio = u
			break
		}
	}

	if full, first, last, ok := findName(text); ok {
		info.FullName, info.FirstName, info.LastName = full, first, last
		confidence += identityNameWeight
	}

	for _, p := range locationPatterns {
		if loc := p.FindString(text); loc != "" {
			info.Location = loc
			confidence += identityLocationWeight
			break
		}
	}

	return info, confidence
}

// findPhone 返回第一个去除非数字（保留+）后长度不少于10的候选号码
func findPhone(text string) (string, bool) {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		if len(phoneStripper.ReplaceAllString(candidate, "")) >= minPhoneDigits {
			return strings.TrimSpace(candidate), true
		}
	}
	return "", false
}

// findName 只检查前5个非空行：2到4个词、不含联系类关键字、每个词首字母大写
func findName(text string) (full, first, last string, ok bool) {
	checked := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if checked == nameScanLines {
			break
		}
		checked++

		if containsAny(strings.ToLower(line), nameStopKeywords) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if !allCapitalized(words) {
			continue
		}
		return line, words[0], words[len(words)-1], true
	}
	return "", "", "", false
}

func allCapitalized(words []string) bool {
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
