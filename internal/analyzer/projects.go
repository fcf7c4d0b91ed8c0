package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-parser-go/internal/types"
)

const (
	projectEntryWeight       = 0.4
	minProjectNameLength     = 3
	maxProjectNameLength     = 49
	minContinuationLength    = 10
	maxProjectDescriptionLen = 200
)

var projectLabels = []string{"project"}

// 项目行模式，按顺序尝试；第1组为名称，第2组为描述
var projectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s*[-–]\s*(.+?)\s*\((\w+\s*\d{4})\s*[-–]\s*(\w+\s*\d{4})\)`), // Name - Description (Start - End)
	regexp.MustCompile(`(?i)^(.+?)\s*[,:\-]\s*(.+?)$`),                                         // Name, Description / Name: Description
}

var (
	projectURLPattern = regexp.MustCompile(`https?://[^\s]+`)
	projectStopwords  = map[string]bool{"the": true, "and": true, "with": true, "for": true, "using": true}
)

// ExtractProjects 抽取项目经历
func (a *Analyzer) ExtractProjects(text string) ([]types.Project, float64) {
	return a.extractProjects(text, Segment(text))
}

func (a *Analyzer) extractProjects(text string, secs Sections) ([]types.Project, float64) {
	projects := []types.Project{}
	if strings.TrimSpace(text) == "" {
		return projects, 0
	}

	section := secs.TextOr(text, projectLabels...)

	var current *types.Project
	for _, raw := range strings.Split(section, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if p, ok := matchProjectHeader(line); ok {
			if current != nil {
				projects = append(projects, *current)
			}
			current = &p
			continue
		}

		// 非标题行追加到当前项目描述
		if current != nil && len(line) > minContinuationLength && len(current.Description) < maxProjectDescriptionLen {
			if current.Description == "" {
				current.Description = line
			} else {
				current.Description += " " + line
			}
		}
	}
	if current != nil {
		projects = append(projects, *current)
	}

	kept := projects[:0]
	for _, p := range projects {
		if isNumeric(p.Name) {
			continue
		}
		p.TechStack = a.technicalSkills(p.Description)
		kept = append(kept, p)
	}

	return kept, clampedScore(len(kept), projectEntryWeight)
}

// matchProjectHeader 依次尝试各模式，名称校验失败时继续尝试下一个模式
func matchProjectHeader(line string) (types.Project, bool) {
	for _, re := range projectPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if !validProjectName(name) {
			continue
		}
		return types.Project{
			Name:        name,
			Description: strings.TrimSpace(m[2]),
			TechStack:   []string{},
			ProjectURL:  projectURLPattern.FindString(line),
		}, true
	}
	return types.Project{}, false
}

// validProjectName 过滤看起来像句子片段的名称
func validProjectName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < minProjectNameLength || n > maxProjectNameLength {
		return false
	}
	if strings.HasSuffix(name, ".") {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if projectStopwords[w] {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
