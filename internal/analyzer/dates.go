package analyzer

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// monthTable 月份缩写按日历顺序排列，前缀匹配
var monthTable = [12]struct {
	abbr string
	num  string
}{
	{"jan", "01"}, {"feb", "02"}, {"mar", "03"}, {"apr", "04"},
	{"may", "05"}, {"jun", "06"}, {"jul", "07"}, {"aug", "08"},
	{"sep", "09"}, {"oct", "10"}, {"nov", "11"}, {"dec", "12"},
}

// parseDate 把 "Jan 2020"、"2020"、"Present" 之类的写法统一为 MM/YYYY。
// 无法识别年份时原样返回。
func parseDate(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if s == "" || lower == "present" {
		return types.DatePresent
	}

	year := yearPattern.FindString(s)
	if year == "" {
		return s
	}
	for _, m := range monthTable {
		if strings.Contains(lower, m.abbr) {
			return m.num + "/" + year
		}
	}
	return "01/" + year
}
