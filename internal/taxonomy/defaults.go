package taxonomy

// DefaultCategories 内置技能目录，共 64 个规范技能
func DefaultCategories() []CategorySkills {
	return []CategorySkills{
		{Category: ProgrammingLanguages, Skills: []string{
			"python", "java", "javascript", "c++", "c#", "go", "rust", "swift",
			"kotlin", "typescript", "php", "ruby", "sql", "r", "matlab",
		}},
		{Category: Frameworks, Skills: []string{
			"react", "angular", "vue", "django", "flask", "fastapi", "spring",
			"node.js", "express", "laravel", "ruby on rails", "tensorflow",
			"pytorch", "keras", "scikit-learn", "pandas", "numpy",
		}},
		{Category: Tools, Skills: []string{
			"docker", "kubernetes", "aws", "azure", "gcp", "git", "jenkins",
			"linux", "unix", "windows", "macos", "jira", "confluence",
		}},
		{Category: Databases, Skills: []string{
			"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle",
			"cassandra", "elasticsearch",
		}},
		{Category: SoftSkills, Skills: []string{
			"leadership", "communication", "teamwork", "problem solving",
			"critical thinking", "time management", "adaptability", "creativity",
			"collaboration", "presentation", "negotiation",
		}},
	}
}

// DefaultAliases 人工整理的同义词表，别名 -> 规范名
func DefaultAliases() map[string]string {
	return map[string]string{
		"js":                  "javascript",
		"es6":                 "javascript",
		"py":                  "python",
		"node":                "node.js",
		"nodejs":              "node.js",
		"cpp":                 "c++",
		"csharp":              "c#",
		"reactjs":             "react",
		"react.js":            "react",
		"amazon web services": "aws",
		"expressjs":           "express",
		"express.js":          "express",
	}
}

// Default 使用内置目录构建技能目录，extraAliases 可追加额外别名
func Default(extraAliases map[string]string) *Taxonomy {
	aliases := DefaultAliases()
	for alias, canonical := range extraAliases {
		aliases[alias] = canonical
	}
	return New(DefaultCategories(), aliases)
}
