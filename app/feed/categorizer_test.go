package feed

import (
	"testing"
)

func TestCategorize_CVEPattern(t *testing.T) {
	category := Categorize("CVE-2024-1234 in popular library", "details pending")
	if category != CategoryVulnerability {
		t.Errorf("Expected vulnerability, got %s", category)
	}

	// Case-insensitive
	category = Categorize("cve-2023-99999 writeup", "")
	if category != CategoryVulnerability {
		t.Errorf("Expected vulnerability for lowercase CVE, got %s", category)
	}
}

func TestCategorize_VulnerabilityKeywords(t *testing.T) {
	cases := []string{
		"New exploit released for router firmware",
		"Vendor ships emergency patch",
		"Zero-day found in mail server",
		"Critical vulnerability disclosed",
	}

	for _, title := range cases {
		if category := Categorize(title, ""); category != CategoryVulnerability {
			t.Errorf("Expected vulnerability for %q, got %s", title, category)
		}
	}
}

func TestCategorize_IntelligenceKeywords(t *testing.T) {
	cases := []string{
		"APT 29 targets embassies",
		"Ransomware gang shifts tactics",
		"Phishing campaign hits banks",
		"Threat actor profile published",
		"Data breach at retailer",
	}

	for _, title := range cases {
		if category := Categorize(title, ""); category != CategoryIntelligence {
			t.Errorf("Expected intelligence for %q, got %s", title, category)
		}
	}
}

func TestCategorize_DefaultNews(t *testing.T) {
	category := Categorize("Company announces quarterly results", "a routine update")
	if category != CategoryNews {
		t.Errorf("Expected news, got %s", category)
	}
}

func TestCategorize_PrecedenceVulnerabilityFirst(t *testing.T) {
	// Matches both the vulnerability and intelligence sets; the first group
	// must win.
	title := "Ransomware gang exploits new vulnerability"
	if category := Categorize(title, ""); category != CategoryVulnerability {
		t.Errorf("Expected vulnerability to take precedence, got %s", category)
	}
}

func TestCategorize_BodyTextConsidered(t *testing.T) {
	category := Categorize("Weekly roundup", "includes analysis of a malware sample")
	if category != CategoryIntelligence {
		t.Errorf("Expected intelligence from body text, got %s", category)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	title, content := "Mixed exploit and ransomware news", "some details"
	first := Categorize(title, content)
	for i := 0; i < 10; i++ {
		if got := Categorize(title, content); got != first {
			t.Fatalf("Categorize not deterministic: got %s then %s", first, got)
		}
	}
}
