package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEducationDegreeFrom(t *testing.T) {
	entries, confidence := ExtractEducation("EDUCATION\nB.Tech from MIT (2016 - 2020)\n8.7 CGPA")
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "MIT", e.Institution)
	assert.Equal(t, "B.Tech", e.Degree)
	assert.Equal(t, "2016", e.StartYear)
	assert.Equal(t, "2020", e.EndYear)
	assert.Equal(t, "8.7", e.Grade)
	assert.Empty(t, e.FieldOfStudy)
	assert.InDelta(t, 0.3, confidence, 1e-9)
}

func TestExtractEducationSharedGrade(t *testing.T) {
	text := `EDUCATION
Stanford University - MSc Computer Science (2016 - 2018)
B.Tech from IIT Delhi (2012 - 2016)
Grade: A+`

	entries, confidence := ExtractEducation(text)
	require.Len(t, entries, 2)

	assert.Equal(t, "Stanford University", entries[0].Institution)
	assert.Equal(t, "MSc Computer Science", entries[0].Degree)
	assert.Equal(t, "IIT Delhi", entries[1].Institution)
	assert.Equal(t, "B.Tech", entries[1].Degree)
	for _, e := range entries {
		assert.Equal(t, "A+", e.Grade, "成绩作用于整个教育分区")
	}
	assert.InDelta(t, 0.6, confidence, 1e-9)
}

func TestExtractEducationPercentageGrade(t *testing.T) {
	entries, _ := ExtractEducation("EDUCATION\nState College - BSc (2010 - 2014)\nScored 85% overall")
	require.Len(t, entries, 1)
	assert.Equal(t, "85", entries[0].Grade)
}

func TestExtractEducationOngoing(t *testing.T) {
	entries, _ := ExtractEducation("EDUCATION\nTech University - PhD (2021 - Present)")
	require.Len(t, entries, 1)
	assert.Equal(t, "Present", entries[0].EndYear)
	assert.Empty(t, entries[0].Grade)
}

func TestFindGradeOrder(t *testing.T) {
	assert.Equal(t, "3.9", findGrade("3.9 GPA, top 5%"), "GPA 优先于百分比")
	assert.Equal(t, "92", findGrade("92 % and Grade: B"))
	assert.Equal(t, "F", findGrade("Grade: F"))
	assert.Empty(t, findGrade("no grade here"))
}

func TestExtractEducationEmpty(t *testing.T) {
	entries, confidence := ExtractEducation("")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Zero(t, confidence)
}
