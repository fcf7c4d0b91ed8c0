package analyzer

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

const educationEntryWeight = 0.3

var educationLabels = []string{"education"}

// 教育经历模式，primary=institution, secondary=degree：
//
//	Institution - Degree (YYYY - YYYY|Present)
//	Degree from Institution (YYYY - YYYY)
var educationPatterns = []entryPattern{
	{
		name:      "institution-dash-degree",
		re:        regexp.MustCompile(`(?i)(.+?)\s*[-–]\s*(.+?)\s*\((\d{4})\s*[-–]\s*(\d{4}|Present)\)`),
		primary:   1,
		secondary: 2,
		start:     3,
		end:       4,
	},
	{
		name:      "degree-from-institution",
		re:        regexp.MustCompile(`(?i)(.+?)\s+from\s+(.+?)\s*\(?\s*(\d{4})\s*[-–]\s*(\d{4})\s*\)?`),
		primary:   2,
		secondary: 1,
		start:     3,
		end:       4,
	},
}

// 成绩模式按顺序尝试，作用于整个教育分区而非单条记录
var gradePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+\.\d+)\s*(?:CGPA|GPA)`),
	regexp.MustCompile(`(\d+)\s*%`),
	regexp.MustCompile(`(?i)Grade:\s*([A-F][+-]?)`),
}

// ExtractEducation 抽取教育经历
func ExtractEducation(text string) ([]types.Education, float64) {
	return extractEducation(text, Segment(text))
}

func extractEducation(text string, secs Sections) ([]types.Education, float64) {
	entries := []types.Education{}
	if strings.TrimSpace(text) == "" {
		return entries, 0
	}

	section := secs.TextOr(text, educationLabels...)
	grade := findGrade(section)

	for _, p := range educationPatterns {
		for _, m := range p.re.FindAllStringSubmatch(section, -1) {
			entries = append(entries, types.Education{
				Institution: strings.TrimSpace(m[p.primary]),
				Degree:      strings.TrimSpace(m[p.secondary]),
				StartYear:   m[p.start],
				EndYear:     m[p.end],
				Grade:       grade,
			})
		}
	}

	return entries, clampedScore(len(entries), educationEntryWeight)
}

// findGrade 返回分区内第一个命中的成绩。
// 同一分区内的所有条目共享该值。
func findGrade(section string) string {
	for _, p := range gradePatterns {
		if m := p.FindStringSubmatch(section); m != nil {
			return m[1]
		}
	}
	return ""
}
