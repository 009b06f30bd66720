// Package aadhaar reads identity fields out of the text of an Aadhaar card.
package aadhaar

import (
	"regexp"
	"strings"

	"kyc-backend/internal/extract"
	"kyc-backend/internal/shared/telemetry"
)

var (
	numberRe      = regexp.MustCompile(`\b\d{4}\s\d{4}\s\d{4}\b`)
	mobileRe      = regexp.MustCompile(`[6-9]\d{9}`)
	latinNameRe   = regexp.MustCompile(`^[A-Za-z ]+$`)
	kannadaRe     = regexp.MustCompile(`[\x{0C80}-\x{0CFF}]`)
	latinLetterRe = regexp.MustCompile(`[A-Za-z]`)
	dobRe         = regexp.MustCompile(`(?i)DOB[: ]*(\d{2}/\d{2}/\d{4})`)
	maleRe        = regexp.MustCompile(`(?i)\bMALE\b`)
	femaleRe      = regexp.MustCompile(`(?i)\bFEMALE\b`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	trailCommaRe  = regexp.MustCompile(`,+$`)

	englishAddressStopRe = regexp.MustCompile(`(?i)Signature|Digitally|Verified|Enrol|Mobile:`)
	kannadaAddressStopRe = regexp.MustCompile(`(?i)Enrol|Signature|Digitally|Verified|DOB|Details as on`)
)

// Boilerplate printed on every card; a line containing any of these is not a name.
var (
	englishNameDeny = []string{
		"to", "c/o", "s/o", "w/o", "h/o",
		"address", "vtc", "po", "district",
		"state", "pin", "mobile", "dob",
		"male", "female", "verified",
		"signature", "digitally", "enrol",
		"identification", "authority", "india", "government", "unique",
		"uid", "enrollment", "card", "resident",
	}
	kannadaNameDeny = []string{
		"ವಿಳಾ", "ನೋಂದಣಿ", "ನಂ", "DOB", "ಜನ್ಮ",
		"ವಿಳಾಸ", "ಮನೆ", "ರಸ್ತೆ", "ಬಡಾವಣೆ",
		"ತಾಲ್ಲೂಕು", "ಜಿಲ್ಲೆ", "ರಾಜ್ಯ", "ಪಿನ್",
		"ಸಹಿ", "ಸಹಿತ", "ಆಧಾರ್", "ಗುರುತು",
	}
	kannadaMale   = []string{"ಪುರುಷ"}
	kannadaFemale = []string{"ಮಹಿಳೆ", "ಸ್ತ್ರೀ"}
)

const kannadaAddressMarker = "ವಿಳಾ"

// Parse extracts an Identity from raw card text.
func Parse(text string) Identity {
	return ParseLines(text, extract.Lines(text))
}

// ParseLines is Parse for callers that already tokenized the text. It never
// panics; an unexpected failure yields an empty Identity.
func ParseLines(text string, lines []string) (id Identity) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("aadhaar.parse_panic", map[string]any{"panic": r, "lines": len(lines)})
			id = Identity{}
		}
	}()

	return Identity{
		AadhaarNumber:  str(numberRe.FindString(text)),
		Mobile:         str(mobileRe.FindString(text)),
		NameEnglish:    firstLine(lines, isEnglishName),
		NameKannada:    firstLine(lines, isKannadaName),
		DOB:            parseDOB(text),
		Gender:         parseGender(lines),
		Address:        parseEnglishAddress(lines),
		AddressKannada: parseKannadaAddress(lines),
	}
}

func isEnglishName(l string) bool {
	if !latinNameRe.MatchString(l) || containsAny(strings.ToLower(l), englishNameDeny) {
		return false
	}
	if len(l) <= 3 || len(l) >= 50 {
		return false
	}
	parts := len(strings.Split(l, " "))
	return parts >= 2 && parts <= 4
}

func isKannadaName(l string) bool {
	if !kannadaRe.MatchString(l) || containsAny(l, kannadaNameDeny) {
		return false
	}
	n := len([]rune(l))
	if n <= 2 || n >= 30 {
		return false
	}
	return len(strings.Split(l, " ")) <= 3
}

func parseDOB(text string) *string {
	m := dobRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	return str(m[1])
}

// parseGender scans line by line with whole-word matching. A line naming
// both genders is a form label row and is skipped.
func parseGender(lines []string) *string {
	for _, l := range lines {
		male := maleRe.MatchString(l) || containsAny(l, kannadaMale)
		female := femaleRe.MatchString(l) || containsAny(l, kannadaFemale)
		switch {
		case male && female:
			continue
		case male:
			return str(GenderMale)
		case female:
			return str(GenderFemale)
		}
	}
	return nil
}

func parseEnglishAddress(lines []string) *string {
	start := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "C/O") || strings.HasPrefix(l, "S/O") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var block []string
	for _, l := range lines[start:] {
		if numberRe.MatchString(l) || englishAddressStopRe.MatchString(l) {
			break
		}
		if c := cleanPart(l); c != "" {
			block = append(block, c)
		}
	}
	return str(cleanPart(strings.Join(block, ", ")))
}

// parseKannadaAddress collects the lines after the address marker that are
// mostly Kannada script.
func parseKannadaAddress(lines []string) *string {
	start := -1
	for i, l := range lines {
		if strings.Contains(l, kannadaAddressMarker) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var block []string
	for _, l := range lines[start+1:] {
		if numberRe.MatchString(l) || kannadaAddressStopRe.MatchString(l) {
			break
		}
		kan := len(kannadaRe.FindAllStringIndex(l, -1))
		lat := len(latinLetterRe.FindAllStringIndex(l, -1))
		if kan > lat {
			if c := cleanPart(l); c != "" {
				block = append(block, c)
			}
		}
	}
	return str(cleanPart(strings.Join(block, ", ")))
}

// cleanPart strips trailing commas and collapses whitespace.
func cleanPart(s string) string {
	s = trailCommaRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func firstLine(lines []string, match func(string) bool) *string {
	for _, l := range lines {
		if match(l) {
			return str(l)
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
