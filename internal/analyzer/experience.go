package analyzer

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

const (
	experienceEntryWeight = 0.3
	maxDescriptionLines   = 3
	minDescriptionLength  = 20
	minHarvestLineLength  = 10
)

var experienceLabels = []string{"experience", "work", "employment"}

// entryPattern 一条按优先级排列的条目模式及其分组映射。
// primary/secondary 为两个文本字段所在的分组号，start/end 为日期分组号。
type entryPattern struct {
	name      string
	re        *regexp.Regexp
	primary   int
	secondary int
	start     int
	end       int
}

// 工作经历模式：
//
//	Company - Title (Start - End|Present)   primary=company, secondary=title
//	Title at Company (Start - End|Present)  primary=company, secondary=title
var experiencePatterns = []entryPattern{
	{
		name:      "company-dash-title",
		re:        regexp.MustCompile(`(?i)(.+?)\s*[-–]\s*(.+?)\s*\((\w+\s*\d{4})\s*[-–]\s*(\w+\s*\d{4}|Present)\)`),
		primary:   1,
		secondary: 2,
		start:     3,
		end:       4,
	},
	{
		name:      "title-at-company",
		re:        regexp.MustCompile(`(?i)(.+?)\s+at\s+(.+?)\s*\((\w+\s*\d{4})\s*[-–]\s*(\w+\s*\d{4}|Present)\)`),
		primary:   2,
		secondary: 1,
		start:     3,
		end:       4,
	},
}

// nextEntryPattern 含括号和四位年份的行视为下一条经历的开始
var nextEntryPattern = regexp.MustCompile(`.*[()].*\d{4}.*`)

// ExtractExperience 抽取工作经历，顺序与原文一致
func ExtractExperience(text string) ([]types.WorkExperience, float64) {
	return extractExperience(text, Segment(text))
}

func extractExperience(text string, secs Sections) ([]types.WorkExperience, float64) {
	entries := []types.WorkExperience{}
	if strings.TrimSpace(text) == "" {
		return entries, 0
	}

	section := secs.TextOr(text, experienceLabels...)

	// 每个模式各自收集所有不重叠的匹配，模式之间不去重
	for _, p := range experiencePatterns {
		for _, m := range p.re.FindAllStringSubmatch(section, -1) {
			title := strings.TrimSpace(m[p.secondary])
			entries = append(entries, types.WorkExperience{
				JobTitle:     title,
				Company:      strings.TrimSpace(m[p.primary]),
				StartDate:    parseDate(m[p.start]),
				EndDate:      parseDate(m[p.end]),
				Type:         detectEmploymentType(title),
				Description:  harvestDescription(section, m[0]),
				SkillsGained: []string{},
			})
		}
	}

	return entries, clampedScore(len(entries), experienceEntryWeight)
}

// harvestDescription 从匹配行之后收集描述行，遇到下一条经历或过短的行即停止
func harvestDescription(section, matched string) []string {
	desc := []string{}
	found := false
	for _, raw := range strings.Split(section, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !found {
			found = strings.Contains(line, matched)
			continue
		}
		if nextEntryPattern.MatchString(line) || len(line) < minHarvestLineLength {
			break
		}
		if len(line) > minDescriptionLength && !isBulletPrefixed(line) {
			desc = append(desc, line)
		}
		if len(desc) >= maxDescriptionLines {
			break
		}
	}
	return desc
}

func isBulletPrefixed(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*")
}

// detectEmploymentType 根据职位名推断雇佣类型
func detectEmploymentType(title string) types.EmploymentType {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "intern"):
		return types.EmploymentInternship
	case containsAny(lower, []string{"freelance", "contract", "consultant"}):
		return types.EmploymentContract
	case strings.Contains(lower, "part") && strings.Contains(lower, "time"):
		return types.EmploymentPartTime
	default:
		return types.EmploymentFullTime
	}
}

// clampedScore min(n*weight, 1)
func clampedScore(n int, weight float64) float64 {
	score := float64(n) * weight
	if score > 1 {
		return 1
	}
	return score
}
