// Package rtc reads land-record fields out of the text of an RTC.
//
// Parsing is heuristic and positional. Each field is found by its own rule
// over the same line slice, and a rule that matches nothing leaves its field
// nil without affecting the others, so scans with layout drift still yield
// whatever can be read.
package rtc

import (
	"regexp"
	"strings"

	"kyc-backend/internal/shared/telemetry"
)

const (
	surveyMarker     = "ನಂಬರ್"
	validFromMarker  = "Valid from"
	landTaxMarker    = "ಕಂದಾಯ"
	soilTypeMarker   = "ನಮೂನೆ"
	monsoonMarker    = "ಮುಂಗಾರು"
	preMonsoonMarker = "ಪೂ."
	cropMarker       = "ಹು"

	SeasonPreMonsoon  = "ಪೂರ್ವ ಮುಂಗಾರು"
	SeasonPostMonsoon = "ಉತ್ತರ ಮುಂಗಾರು"
)

var (
	surveyRe    = regexp.MustCompile(`[\d/]+\*`)
	validFromRe = regexp.MustCompile(`\d{2}/\d{2}/\d{4}\s*\d{2}:\d{2}`)
	extentRe    = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
	decimalRe   = regexp.MustCompile(`\d+(\.\d+)?`)
	shortNumRe  = regexp.MustCompile(`\b\d{1,4}\b`)
	mrWordRe    = regexp.MustCompile(`(?i)\bMR\b`)
	dateRe      = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	yearRangeRe = regexp.MustCompile(`\d{4}-\d{4}`)
)

// Parse extracts a Record from trimmed, non-empty lines. It never panics;
// an unexpected failure yields an empty Record.
func Parse(lines []string) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("rtc.parse_panic", map[string]any{"panic": r, "lines": len(lines)})
			rec = empty()
		}
	}()

	rec = empty()
	rec.Location, rec.LandIdentification.SurveyNumber = parseLocation(lines)
	rec.LandIdentification.HissaNumber = hissaFromSurvey(rec.LandIdentification.SurveyNumber)
	rec.LandIdentification.ValidFrom = parseValidFrom(lines)
	rec.LandDetails = parseLandDetails(lines)
	rec.Ownership = parseOwnership(lines)
	rec.Ownership.MutationDate = parseMutationDate(lines)
	rec.Cultivation = parseCultivation(lines)
	return rec
}

func empty() Record {
	return Record{
		Ownership:   Ownership{Owners: []string{}},
		Cultivation: []Cultivation{},
	}
}

// parseLocation reads taluk, hobli and village from the first three tokens
// of the location line, and the survey number from the first starred token.
// The location line is the one carrying the survey marker, or failing that
// the first line with a starred survey token.
func parseLocation(lines []string) (Location, *string) {
	idx := indexOf(lines, func(l string) bool { return strings.Contains(l, surveyMarker) })
	if idx < 0 {
		idx = indexOf(lines, func(l string) bool {
			for _, tok := range strings.Fields(l) {
				if surveyRe.MatchString(tok) {
					return true
				}
			}
			return false
		})
	}
	if idx < 0 {
		return Location{}, nil
	}

	tokens := strings.Fields(lines[idx])
	loc := Location{
		Taluk:   tokenAt(tokens, 0),
		Hobli:   tokenAt(tokens, 1),
		Village: tokenAt(tokens, 2),
	}
	for _, tok := range tokens {
		if surveyRe.MatchString(tok) {
			return loc, str(tok)
		}
	}
	return loc, nil
}

// hissaFromSurvey takes the segment after the last "/" and drops the star.
func hissaFromSurvey(survey *string) *string {
	if survey == nil {
		return nil
	}
	seg := *survey
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	return str(strings.Replace(seg, "*", "", 1))
}

func parseValidFrom(lines []string) *string {
	idx := indexOf(lines, func(l string) bool { return strings.Contains(l, validFromMarker) })
	if idx < 0 {
		return nil
	}
	return str(validFromRe.FindString(lines[idx]))
}

func parseLandDetails(lines []string) LandDetails {
	var d LandDetails

	if idx := indexOf(lines, extentRe.MatchString); idx >= 0 {
		d.TotalExtent = str(extentRe.FindString(lines[idx]))
		d.PhutKharabA = matchAt(lines, idx+1, extentRe)
		d.PhutKharabB = matchAt(lines, idx+2, extentRe)
		if d.TotalExtent != nil {
			remaining := *d.TotalExtent
			d.RemainingExtent = &remaining
		}
	}

	if idx := indexOf(lines, func(l string) bool { return strings.Contains(l, landTaxMarker) }); idx >= 0 {
		d.LandTax = str(decimalRe.FindString(lines[idx]))
	}

	if idx := indexOf(lines, func(l string) bool { return strings.Contains(l, soilTypeMarker) }); idx >= 0 && idx+1 < len(lines) {
		d.SoilType = str(lines[idx+1])
	}
	return d
}

// isOwnerRow recognises the owner/account row: a dotted owner list, an
// extent, a short account number and a mutation register reference.
func isOwnerRow(l string) bool {
	return strings.Contains(l, ".") &&
		extentRe.MatchString(l) &&
		shortNumRe.MatchString(l) &&
		mrWordRe.MatchString(l)
}

func parseOwnership(lines []string) Ownership {
	o := Ownership{Owners: []string{}}
	idx := indexOf(lines, isOwnerRow)
	if idx < 0 {
		return o
	}

	tokens := strings.Fields(lines[idx])
	extIdx := -1
	for i, tok := range tokens {
		if extentRe.MatchString(tok) {
			extIdx = i
			break
		}
	}
	if extIdx < 0 {
		return o
	}

	for _, name := range strings.Split(strings.Join(tokens[:extIdx], " "), ".") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			o.Owners = append(o.Owners, trimmed)
		}
	}
	o.Extent = str(tokens[extIdx])
	o.AccountNo = tokenAt(tokens, extIdx+1)
	if extIdx+2 < len(tokens) {
		for _, tok := range tokens[extIdx+2:] {
			if strings.Contains(strings.ToUpper(tok), "MR") {
				o.MutationNo = str(tok)
				break
			}
		}
	}
	return o
}

func parseMutationDate(lines []string) *string {
	idx := indexOf(lines, dateRe.MatchString)
	if idx < 0 {
		return nil
	}
	return str(dateRe.FindString(lines[idx]))
}

func parseCultivation(lines []string) []Cultivation {
	out := []Cultivation{}
	for _, l := range lines {
		year := yearRangeRe.FindString(l)
		if year == "" {
			continue
		}
		entry := Cultivation{
			Year:   str(year),
			Extent: str(extentRe.FindString(l)),
		}
		if strings.Contains(l, monsoonMarker) {
			if strings.Contains(l, preMonsoonMarker) {
				entry.Season = str(SeasonPreMonsoon)
			} else {
				entry.Season = str(SeasonPostMonsoon)
			}
		}
		if strings.Contains(l, cropMarker) {
			entry.Crop = str(cropMarker)
		}
		out = append(out, entry)
	}
	return out
}

func indexOf(lines []string, match func(string) bool) int {
	for i, l := range lines {
		if match(l) {
			return i
		}
	}
	return -1
}

func matchAt(lines []string, idx int, re *regexp.Regexp) *string {
	if idx < 0 || idx >= len(lines) {
		return nil
	}
	return str(re.FindString(lines[idx]))
}

func tokenAt(tokens []string, i int) *string {
	if i < 0 || i >= len(tokens) {
		return nil
	}
	return str(tokens[i])
}

// str returns nil for the empty string.
func str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
