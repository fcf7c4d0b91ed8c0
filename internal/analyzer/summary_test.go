package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSummaryFromSection(t *testing.T) {
	text := "Jane Smith\nSUMMARY\nBackend engineer with 8 years of experience.\nLoves Go.\nEXPERIENCE\nAcme - Dev (Jan 2020 - Present)"

	summary, confidence := ExtractSummary(text)
	assert.Equal(t, "Backend engineer with 8 years of experience.", summary)
	assert.InDelta(t, 0.8, confidence, 1e-9)
}

func TestExtractSummaryObjectiveHeading(t *testing.T) {
	summary, confidence := ExtractSummary("CAREER OBJECTIVE\nSeeking a platform role.")
	assert.Equal(t, "Seeking a platform role.", summary)
	assert.InDelta(t, 0.8, confidence, 1e-9)
}

func TestExtractSummaryFallbackAfterContact(t *testing.T) {
	text := `Jane Smith | jane@example.com | reach me for consulting work anytime
Extensive experience building backend platforms for fintech companies
Short line
I enjoy turning messy business requirements into simple reliable software`

	summary, confidence := ExtractSummary(text)
	assert.Equal(t, "I enjoy turning messy business requirements into simple reliable software", summary,
		"含联系方式的行本身不作为简介，含其它分区关键字的行被跳过")
	assert.InDelta(t, 0.6, confidence, 1e-9)
}

func TestExtractSummaryMiss(t *testing.T) {
	summary, confidence := ExtractSummary("Jane Smith\nA long line that appears before any contact marker shows up here")
	assert.Empty(t, summary)
	assert.InDelta(t, 0.3, confidence, 1e-9)
}

func TestExtractSummaryEmpty(t *testing.T) {
	summary, confidence := ExtractSummary("")
	assert.Empty(t, summary)
	assert.Zero(t, confidence)
}
