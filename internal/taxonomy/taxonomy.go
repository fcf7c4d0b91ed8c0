// Package taxonomy 维护技能目录：规范技能名、所属类别以及别名映射。
//
// Taxonomy 在启动时构建一次，之后只读，可被任意数量的 goroutine 并发使用。
package taxonomy

import (
	"regexp"
	"slices"
	"strings"
)

// Category 技能类别
type Category string

const (
	ProgrammingLanguages Category = "programming_languages"
	Frameworks           Category = "frameworks"
	Tools                Category = "tools"
	Databases            Category = "databases"
	SoftSkills           Category = "soft_skills"
)

// CategorySkills 一个类别及其下的规范技能（均为小写）
type CategorySkills struct {
	Category Category
	Skills   []string
}

// term 一个可在文本中检索的词条（规范名或别名）
type term struct {
	text      string
	canonical string
	pattern   *regexp.Regexp
}

// Taxonomy 不可变的技能目录
type Taxonomy struct {
	order      []string            // 规范技能，按类别顺序排列
	categories map[string]Category // 规范名 -> 类别
	lookup     map[string]string   // 小写词条 -> 规范名
	rank       map[string]int      // 规范名 -> order 中的下标
	terms      []term
}

// New 根据类别列表和别名表构建技能目录。
// 别名指向的规范名必须存在于某个类别中，否则该别名被忽略。
func New(categories []CategorySkills, aliases map[string]string) *Taxonomy {
	t := &Taxonomy{
		categories: make(map[string]Category),
		lookup:     make(map[string]string),
		rank:       make(map[string]int),
	}

	for _, cs := range categories {
		for _, skill := range cs.Skills {
			canonical := normalize(skill)
			if canonical == "" {
				continue
			}
			if _, dup := t.categories[canonical]; dup {
				continue
			}
			t.categories[canonical] = cs.Category
			t.rank[canonical] = len(t.order)
			t.order = append(t.order, canonical)
			t.lookup[canonical] = canonical
			t.terms = append(t.terms, newTerm(canonical, canonical))
		}
	}

	// 别名按规范名顺序登记，保证检索顺序确定
	byCanonical := make(map[string][]string)
	for alias, canonical := range aliases {
		alias, canonical = normalize(alias), normalize(canonical)
		if _, ok := t.categories[canonical]; !ok || alias == "" {
			continue
		}
		if _, exists := t.lookup[alias]; exists {
			continue
		}
		byCanonical[canonical] = append(byCanonical[canonical], alias)
	}
	for _, canonical := range t.order {
		names := byCanonical[canonical]
		slices.Sort(names)
		for _, alias := range names {
			t.lookup[alias] = canonical
			t.terms = append(t.terms, newTerm(alias, canonical))
		}
	}

	return t
}

// newTerm 为词条生成匹配模式。
// 边界使用“非 [a-z0-9_]”而不是 \b，这样 c++、c#、node.js 之类以符号结尾的词条也能命中。
func newTerm(text, canonical string) term {
	return term{
		text:      text,
		canonical: canonical,
		pattern:   regexp.MustCompile(`(?:^|[^a-z0-9_])` + regexp.QuoteMeta(text) + `(?:$|[^a-z0-9_])`),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Canonicalize 将一个技能提及规范化，大小写不敏感的精确匹配，不做模糊匹配
func (t *Taxonomy) Canonicalize(mention string) (string, bool) {
	canonical, ok := t.lookup[normalize(mention)]
	return canonical, ok
}

// CategoryOf 返回规范技能所属类别
func (t *Taxonomy) CategoryOf(canonical string) (Category, bool) {
	c, ok := t.categories[normalize(canonical)]
	return c, ok
}

// IsSoft 判断规范技能是否为软技能
func (t *Taxonomy) IsSoft(canonical string) bool {
	c, ok := t.CategoryOf(canonical)
	return ok && c == SoftSkills
}

// Size 规范技能总数
func (t *Taxonomy) Size() int {
	return len(t.order)
}

// Skills 按目录顺序返回全部规范技能的副本
func (t *Taxonomy) Skills() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Find 在自由文本中检索所有出现的技能（规范名或别名），
// 结果按规范名去重，并按目录顺序排列。
func (t *Taxonomy) Find(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	hit := make([]bool, len(t.order))
	for _, tm := range t.terms {
		idx := t.rank[tm.canonical]
		if hit[idx] {
			continue
		}
		// 粗筛，避免对明显不包含的词条跑正则
		if !strings.Contains(lower, tm.text) {
			continue
		}
		if tm.pattern.MatchString(lower) {
			hit[idx] = true
		}
	}

	var found []string
	for i, ok := range hit {
		if ok {
			found = append(found, t.order[i])
		}
	}
	return found
}
