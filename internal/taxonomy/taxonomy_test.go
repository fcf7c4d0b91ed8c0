package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomySize(t *testing.T) {
	tx := Default(nil)
	assert.Equal(t, 64, tx.Size(), "内置目录应包含64个规范技能")
}

func TestCanonicalize(t *testing.T) {
	tx := Default(nil)

	cases := map[string]string{
		"JS":                  "javascript",
		"js":                  "javascript",
		"ReactJS":             "react",
		"react.js":            "react",
		"NodeJS":              "node.js",
		"node":                "node.js",
		"cpp":                 "c++",
		"csharp":              "c#",
		"Amazon Web Services": "aws",
		"expressjs":           "express",
		"  Python ":           "python",
	}
	for mention, want := range cases {
		got, ok := tx.Canonicalize(mention)
		require.True(t, ok, "别名 %q 应能被识别", mention)
		assert.Equal(t, want, got, "别名 %q 规范化结果不符", mention)
	}

	_, ok := tx.Canonicalize("reac")
	assert.False(t, ok, "不应做模糊匹配")
	_, ok = tx.Canonicalize("")
	assert.False(t, ok)
}

func TestCategoryOf(t *testing.T) {
	tx := Default(nil)

	c, ok := tx.CategoryOf("leadership")
	require.True(t, ok)
	assert.Equal(t, SoftSkills, c)
	assert.True(t, tx.IsSoft("Leadership"))

	c, ok = tx.CategoryOf("postgresql")
	require.True(t, ok)
	assert.Equal(t, Databases, c)
	assert.False(t, tx.IsSoft("postgresql"))

	_, ok = tx.CategoryOf("js")
	assert.False(t, ok, "别名不是规范名，没有类别")
}

func TestFindRespectsWordBoundaries(t *testing.T) {
	tx := Default(nil)

	assert.Empty(t, tx.Find("Please place your order before the deadline"), "r 不应在 order 中命中")
	assert.Empty(t, tx.Find("javascripting is not a skill"))
	assert.Equal(t, []string{"java"}, tx.Find("Java developer"))
}

func TestFindSymbolTerms(t *testing.T) {
	tx := Default(nil)

	found := tx.Find("Wrote C++ and C# services, deployed on Node.js.")
	// node.js 中的 js 同样满足边界条件
	assert.Equal(t, []string{"javascript", "c++", "c#", "node.js"}, found)
}

func TestFindAliasesAndOrder(t *testing.T) {
	tx := Default(nil)

	found := tx.Find("Proficient in JS, ReactJS, and node. Strong leadership and teamwork.")
	assert.Equal(t, []string{"javascript", "react", "node.js", "leadership", "teamwork"}, found,
		"结果应按规范名去重并保持目录顺序")

	found = tx.Find("Deployed to Amazon Web Services and AWS Lambda")
	assert.Equal(t, []string{"aws"}, found)
}

func TestFindEmpty(t *testing.T) {
	tx := Default(nil)
	assert.Nil(t, tx.Find(""))
	assert.Nil(t, tx.Find("   \n\t"))
}

func TestExtraAliases(t *testing.T) {
	tx := Default(map[string]string{
		"golang":  "go",
		"k8s":     "kubernetes",
		"unknown": "not-a-skill",
	})

	got, ok := tx.Canonicalize("Golang")
	require.True(t, ok)
	assert.Equal(t, "go", got)
	assert.Equal(t, []string{"kubernetes"}, tx.Find("ran everything on k8s"))

	_, ok = tx.Canonicalize("unknown")
	assert.False(t, ok, "指向不存在规范名的别名应被忽略")
}

func TestSkillsReturnsCopy(t *testing.T) {
	tx := Default(nil)
	skills := tx.Skills()
	skills[0] = "mutated"
	assert.Equal(t, "python", tx.Skills()[0])
}
