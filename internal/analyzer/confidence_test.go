package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-parser-go/internal/types"
)

func TestWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range Weights() {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Len(t, Weights(), 9)
}

func TestAggregate(t *testing.T) {
	assert.Zero(t, Aggregate(types.SectionConfidence{}))

	all := types.SectionConfidence{
		PersonalInfo: 1, Summary: 1, WorkExperience: 1, Education: 1, Skills: 1,
		Projects: 1, Certifications: 1, Languages: 1, Interests: 1,
	}
	assert.InDelta(t, 1.0, Aggregate(all), 1e-9)

	assert.InDelta(t, 0.15, Aggregate(types.SectionConfidence{PersonalInfo: 1}), 1e-9)

	// 未实现的分区恒为0，完整简历的上限为 0.95
	implemented := all
	implemented.Certifications, implemented.Languages, implemented.Interests = 0, 0, 0
	assert.InDelta(t, 0.95, Aggregate(implemented), 1e-9)
}

func TestWeightsReturnsCopy(t *testing.T) {
	w := Weights()
	w["skills"] = 42
	assert.InDelta(t, 0.20, Weights()["skills"], 1e-9)
}
