package analyzer

import "resume-parser-go/internal/types"

// sectionWeight 综合置信度中某一分区的权重
type sectionWeight struct {
	section string
	weight  float64
	value   func(types.SectionConfidence) float64
}

// sectionWeights 固定权重表，总和为 1.0。
// 未实现的分区（certifications/languages/interests）置信度恒为0，但权重照样计入分母。
var sectionWeights = []sectionWeight{
	{"personal_info", 0.15, func(c types.SectionConfidence) float64 { return c.PersonalInfo }},
	{"work_experience", 0.25, func(c types.SectionConfidence) float64 { return c.WorkExperience }},
	{"education", 0.20, func(c types.SectionConfidence) float64 { return c.Education }},
	{"skills", 0.20, func(c types.SectionConfidence) float64 { return c.Skills }},
	{"summary", 0.05, func(c types.SectionConfidence) float64 { return c.Summary }},
	{"projects", 0.10, func(c types.SectionConfidence) float64 { return c.Projects }},
	{"certifications", 0.03, func(c types.SectionConfidence) float64 { return c.Certifications }},
	{"languages", 0.01, func(c types.SectionConfidence) float64 { return c.Languages }},
	{"interests", 0.01, func(c types.SectionConfidence) float64 { return c.Interests }},
}

// Aggregate 计算加权综合置信度 Σ(c*w)/Σw
func Aggregate(c types.SectionConfidence) float64 {
	var total, weights float64
	for _, sw := range sectionWeights {
		total += sw.value(c) * sw.weight
		weights += sw.weight
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}

// Weights 返回权重表的副本，键为分区名
func Weights() map[string]float64 {
	out := make(map[string]float64, len(sectionWeights))
	for _, sw := range sectionWeights {
		out[sw.section] = sw.weight
	}
	return out
}
