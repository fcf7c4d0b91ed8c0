package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/taxonomy"
)

func TestExtractSkillsDensity(t *testing.T) {
	a := New()

	skills, confidence := a.ExtractSkills("Experienced in Python, JavaScript, and React. Strong leadership skills.")

	assert.Equal(t, []string{"python", "javascript", "react"}, skills.Technical)
	assert.Equal(t, []string{"leadership"}, skills.Soft)
	// 4 / 64 * 2
	assert.InDelta(t, 0.125, confidence, 1e-9)
}

func TestExtractSkillsCanonicalizesAliases(t *testing.T) {
	skills, _ := New().ExtractSkills("Daily driver: JS, nodejs and Amazon Web Services; some cpp.")
	assert.Equal(t, []string{"javascript", "c++", "node.js", "aws"}, skills.Technical)
	assert.Empty(t, skills.Soft)
}

func TestExtractSkillsConfidenceCapped(t *testing.T) {
	a := New(WithTaxonomy(taxonomy.New([]taxonomy.CategorySkills{
		{Category: taxonomy.Tools, Skills: []string{"terraform", "ansible", "packer"}},
	}, nil)))

	skills, confidence := a.ExtractSkills("terraform and ansible")
	assert.Equal(t, []string{"terraform", "ansible"}, skills.Technical)
	assert.InDelta(t, 1.0, confidence, 1e-9)
}

func TestExtractSkillsEmpty(t *testing.T) {
	skills, confidence := New().ExtractSkills("")
	assert.NotNil(t, skills.Technical)
	assert.NotNil(t, skills.Soft)
	assert.Zero(t, confidence)
}

func TestExtractProjects(t *testing.T) {
	text := `Jane Smith
PROJECTS
ResumeParser - Heuristic resume parsing service (Jan 2023 - Mar 2023)
Built with Go and Redis for caching parsed results https://github.com/me/resumeparser
Portfolio Site: Personal website built with React`

	projects, confidence := New().ExtractProjects(text)
	require.Len(t, projects, 2)

	p := projects[0]
	assert.Equal(t, "ResumeParser", p.Name)
	assert.Equal(t, "Heuristic resume parsing service Built with Go and Redis for caching parsed results https://github.com/me/resumeparser", p.Description,
		"不满足名称规则的行作为续行追加")
	assert.Equal(t, []string{"go", "redis"}, p.TechStack, "技术栈基于最终描述计算")
	assert.Empty(t, p.ProjectURL)

	assert.Equal(t, "Portfolio Site", projects[1].Name)
	assert.Equal(t, "Personal website built with React", projects[1].Description)
	assert.Equal(t, []string{"react"}, projects[1].TechStack)

	assert.InDelta(t, 0.8, confidence, 1e-9)
}

func TestExtractProjectsURLOnHeader(t *testing.T) {
	projects, _ := New().ExtractProjects("PROJECTS\nGraphViz: renders dependency graphs, see https://graphviz.example.com/demo")
	require.Len(t, projects, 1)
	assert.Equal(t, "GraphViz", projects[0].Name)
	assert.Equal(t, "https://graphviz.example.com/demo", projects[0].ProjectURL)
}

func TestExtractProjectsNameRules(t *testing.T) {
	text := `PROJECTS
2021 - Hackathon finalist entry
The Big One: rejected because of a stopword
Ok: too short a name
Inventory Tracker: barcode based stock management`

	projects, confidence := New().ExtractProjects(text)
	require.Len(t, projects, 1, "纯数字名称被过滤，停用词与过短名称不构成新项目")
	assert.Equal(t, "Inventory Tracker", projects[0].Name)
	assert.InDelta(t, 0.4, confidence, 1e-9)
}

func TestValidProjectName(t *testing.T) {
	assert.True(t, validProjectName("Platform Migration"), "停用词只按整词匹配")
	assert.False(t, validProjectName("Build for scale"))
	assert.False(t, validProjectName("Ends with a period."))
	assert.False(t, validProjectName("ab"))
	assert.False(t, validProjectName("A name that is definitely far too long to be a project title"))
}

func TestExtractProjectsEmpty(t *testing.T) {
	projects, confidence := New().ExtractProjects("")
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
	assert.Zero(t, confidence)
}
