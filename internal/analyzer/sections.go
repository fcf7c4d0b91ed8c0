package analyzer

import (
	"regexp"
	"strings"
)

// 分区标签
const (
	LabelHeader         = "header"
	LabelSummary        = "summary"
	LabelExperience     = "experience"
	LabelEducation      = "education"
	LabelSkills         = "skills"
	LabelProjects       = "projects"
	LabelCertifications = "certifications"
)

// headingPattern 全大写（允许空格）且至少3个字符的行视为标题
var headingPattern = regexp.MustCompile(`^[A-Z][A-Z\s]{2,}$`)

// headingKeywords 大小写不敏感、整行相等即视为标题
var headingKeywords = map[string]bool{
	LabelSummary:        true,
	LabelExperience:     true,
	LabelEducation:      true,
	LabelSkills:         true,
	LabelProjects:       true,
	LabelCertifications: true,
}

// Section 一个带标签的连续文本块
type Section struct {
	Label   string   // 小写、去空白后的标题；标题前的内容为 header
	Heading string   // 原始标题行，header 分区为空
	Lines   []string // 去空白后的非空行
}

// Text 以换行连接分区内容
func (s Section) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Sections 分段结果。
// 同名标签重复出现时后者覆盖前者（last-write-wins），
// 覆盖后的分区保留在首次出现的位置，与按标签建索引的查找保持一致。
type Sections struct {
	list  []Section
	index map[string]int
}

// Segment 按标题行把文本切分为若干分区，空行被丢弃，只有内容非空的分区会被记录
func Segment(text string) Sections {
	secs := Sections{index: make(map[string]int)}

	current := Section{Label: LabelHeader}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isHeading(line) {
			secs.put(current)
			current = Section{Label: strings.ToLower(line), Heading: line}
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	secs.put(current)

	return secs
}

func isHeading(line string) bool {
	return headingPattern.MatchString(line) || headingKeywords[strings.ToLower(line)]
}

func (s *Sections) put(sec Section) {
	if len(sec.Lines) == 0 {
		return
	}
	if i, ok := s.index[sec.Label]; ok {
		s.list[i] = sec
		return
	}
	s.index[sec.Label] = len(s.list)
	s.list = append(s.list, sec)
}

// Len 分区数量
func (s Sections) Len() int {
	return len(s.list)
}

// All 按首次出现顺序返回所有分区
func (s Sections) All() []Section {
	out := make([]Section, len(s.list))
	copy(out, s.list)
	return out
}

// Get 按标签精确查找
func (s Sections) Get(label string) (Section, bool) {
	i, ok := s.index[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return Section{}, false
	}
	return s.list[i], true
}

// Find 返回第一个标签包含任一关键字的分区
func (s Sections) Find(keywords ...string) (Section, bool) {
	for _, sec := range s.list {
		for _, kw := range keywords {
			if strings.Contains(sec.Label, kw) {
				return sec, true
			}
		}
	}
	return Section{}, false
}

// TextOr 返回匹配分区的文本，找不到时返回 fallback
func (s Sections) TextOr(fallback string, keywords ...string) string {
	if sec, ok := s.Find(keywords...); ok {
		return sec.Text()
	}
	return fallback
}

// Lines 按顺序拼接所有分区（含标题行）。
// 标签不重复时，结果与原文的非空行一致。
func (s Sections) Lines() []string {
	var out []string
	for _, sec := range s.list {
		if sec.Heading != "" {
			out = append(out, sec.Heading)
		}
		out = append(out, sec.Lines...)
	}
	return out
}
