package analyzer

import "strings"

const (
	summarySectionConfidence  = 0.8
	summaryFallbackConfidence = 0.6
	summaryMissConfidence     = 0.3

	summaryMinFallbackLength = 50
)

var (
	summaryLabels        = []string{"summary", "objective", "about", "profile"}
	contactMarkers       = []string{"@", "phone", "email", "linkedin"}
	otherSectionKeywords = []string{"experience", "education", "skills", "projects"}
)

// ExtractSummary 抽取个人简介
func ExtractSummary(text string) (string, float64) {
	return extractSummary(text, Segment(text))
}

func extractSummary(text string, secs Sections) (string, float64) {
	if strings.TrimSpace(text) == "" {
		return "", 0
	}

	// 优先使用带简介类标题的分区，取其第一行
	if sec, ok := secs.Find(summaryLabels...); ok {
		return sec.Lines[0], summarySectionConfidence
	}

	// 回退：在出现联系方式之后，取第一条足够长且不像其它分区的行
	seenContact := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if seenContact && len(line) > summaryMinFallbackLength && !containsAny(lower, otherSectionKeywords) {
			return line, summaryFallbackConfidence
		}
		if containsAny(lower, contactMarkers) {
			seenContact = true
		}
	}

	return "", summaryMissConfidence
}
