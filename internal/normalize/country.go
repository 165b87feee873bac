// Package normalize maps free-text field values to the canonical forms
// the rest of the system stores and displays.
package normalize

import "strings"

// RegionOther is the catch-all region for canonical countries without an
// explicit region mapping.
const RegionOther = "ROW"

// canonicalCountries holds the single approved spelling per country,
// keyed by its lower-cased form.
var canonicalCountries = map[string]string{}

var countryNames = []string{
	"USA", "UK", "Canada", "Mexico", "Brazil",
	"Germany", "France", "Spain", "Italy", "Netherlands",
	"Belgium", "Austria", "Switzerland", "Ireland", "Portugal",
	"Sweden", "Norway", "Denmark", "Finland", "Poland",
	"Australia", "New Zealand", "Japan", "China", "India",
	"Singapore", "South Korea",
}

// countryAliases maps lower-cased free-text variants to canonical
// spellings. Many variants map to one canonical value.
var countryAliases = map[string]string{
	"united states":            "USA",
	"united states of america": "USA",
	"us":                       "USA",
	"u.s.":                     "USA",
	"u.s.a.":                   "USA",
	"america":                  "USA",
	"united kingdom":           "UK",
	"great britain":            "UK",
	"britain":                  "UK",
	"england":                  "UK",
	"gb":                       "UK",
	"u.k.":                     "UK",
	"deutschland":              "Germany",
	"holland":                  "Netherlands",
	"the netherlands":          "Netherlands",
	"espana":                   "Spain",
	"españa":                   "Spain",
	"italia":                   "Italy",
	"brasil":                   "Brazil",
	"korea":                    "South Korea",
	"republic of korea":        "South Korea",
	"nz":                       "New Zealand",
	"aus":                      "Australia",
	"ca":                       "Canada",
}

// countryRegions maps canonical countries to region labels. The label
// set is closed: US, UK, EU, APAC, AMER, plus RegionOther as catch-all.
var countryRegions = map[string]string{
	"USA":         "US",
	"UK":          "UK",
	"Canada":      "AMER",
	"Mexico":      "AMER",
	"Brazil":      "AMER",
	"Germany":     "EU",
	"France":      "EU",
	"Spain":       "EU",
	"Italy":       "EU",
	"Netherlands": "EU",
	"Belgium":     "EU",
	"Austria":     "EU",
	"Ireland":     "EU",
	"Portugal":    "EU",
	"Sweden":      "EU",
	"Denmark":     "EU",
	"Finland":     "EU",
	"Poland":      "EU",
	"Australia":   "APAC",
	"New Zealand": "APAC",
	"Japan":       "APAC",
	"China":       "APAC",
	"India":       "APAC",
	"Singapore":   "APAC",
	"South Korea": "APAC",
}

func init() {
	for _, name := range countryNames {
		canonicalCountries[strings.ToLower(name)] = name
	}
}

// CountryName maps a free-text country value to its canonical spelling.
// Canonical spellings match case-insensitively; otherwise the alias
// table is consulted. Unrecognized input passes through trimmed, so the
// result is always traceable to the input. Empty input returns "".
func CountryName(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := canonicalCountries[lower]; ok {
		return canonical
	}
	if canonical, ok := countryAliases[lower]; ok {
		return canonical
	}
	return trimmed
}

// RegionForCountry normalizes the input and resolves its region label.
// Countries without an explicit mapping get RegionOther. Only empty
// input yields "".
func RegionForCountry(input string) string {
	canonical := CountryName(input)
	if canonical == "" {
		return ""
	}
	if region, ok := countryRegions[canonical]; ok {
		return region
	}
	return RegionOther
}
