package analyzer

import (
	"strings"

	"resume-parser-go/internal/types"
)

// ExtractSkills 基于技能目录抽取技能，soft_skills 类别归入 Soft，其余归入 Technical。
// 置信度为命中密度 min(found/size*2, 1)，只反映覆盖程度。
func (a *Analyzer) ExtractSkills(text string) (types.Skills, float64) {
	skills := types.Skills{Technical: []string{}, Soft: []string{}}
	if strings.TrimSpace(text) == "" {
		return skills, 0
	}

	found := a.taxonomy.Find(text)
	for _, s := range found {
		if a.taxonomy.IsSoft(s) {
			skills.Soft = append(skills.Soft, s)
		} else {
			skills.Technical = append(skills.Technical, s)
		}
	}

	size := a.taxonomy.Size()
	if size == 0 {
		return skills, 0
	}
	score := float64(len(found)) / float64(size) * 2
	if score > 1 {
		score = 1
	}
	return skills, score
}

// technicalSkills 只返回技术类技能
func (a *Analyzer) technicalSkills(text string) []string {
	skills, _ := a.ExtractSkills(text)
	return skills.Technical
}
