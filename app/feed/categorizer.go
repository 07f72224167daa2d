package feed

import (
	"regexp"
	"strings"
)

// Pattern groups are tested in declaration order and the first match wins:
// an item matching both the vulnerability and intelligence sets classifies
// as vulnerability. The order must not change, classification is part of the
// observable contract.
var (
	cvePattern = regexp.MustCompile(`(?i)cve-\d{4}-\d+`)

	vulnerabilityPattern = regexp.MustCompile(`(?i)vulnerability|exploit|patch|zero-day|zeroday`)

	intelligencePattern = regexp.MustCompile(`(?i)apt\s*\d+|ransomware|malware|phishing|apt group|threat actor|ioc|research|analysis|technical|breach|leak|hack|attack|incident|compromised`)
)

// Categorize classifies an item from its title and body text. Pure and
// deterministic: same inputs always yield the same category.
func Categorize(title, content string) Category {
	text := strings.ToLower(title + " " + content)

	switch {
	case cvePattern.MatchString(text) || vulnerabilityPattern.MatchString(text):
		return CategoryVulnerability
	case intelligencePattern.MatchString(text):
		return CategoryIntelligence
	default:
		return CategoryNews
	}
}
