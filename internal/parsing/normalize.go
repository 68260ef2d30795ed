package parsing

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"c#":         "C#",
	"c++":        "C++",
	"aws":        "AWS",
	"gcp":        "GCP",
	"sql":        "SQL",
	"rest":       "REST API",
	"rest api":   "REST API",
	"graphql":    "GraphQL",
	"ml":         "Machine Learning",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't known acronyms get a leading capital only
	if normalized == strings.ToUpper(normalized) && normalized != lower && len(normalized) > 4 && !strings.Contains(lower, " ") {
		return strings.ToUpper(normalized[:1]) + lower[1:]
	}

	// Mixed case is taken as intentional
	if normalized != strings.ToUpper(normalized) && normalized != lower {
		return normalized
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// NormalizeSkills canonicalizes and de-duplicates a skill list, keeping first-seen order
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		name := NormalizeSkillName(skill)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
