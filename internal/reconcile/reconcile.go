// Package reconcile compares the owner named on an RTC with the holder of an
// Aadhaar card and builds the profile fields, exposing land data only when
// the two names match.
package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/rtc"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Reconcile merges land and identity fields. Either input may be nil.
func Reconcile(land *rtc.Record, id *aadhaar.Identity) Result {
	landName := land.OwnerName()
	idName := identityName(id, landName)

	status := StatusPending
	if landName != nil && idName != nil {
		if Normalize(*landName) == Normalize(*idName) {
			status = StatusVerified
		} else {
			status = StatusNotVerified
		}
	}

	res := Result{NameVerificationStatus: status}
	if id != nil {
		res.VerifiedName = firstNonNil(id.NameEnglish, id.NameKannada)
		res.AadhaarKannadaName = id.NameKannada
		res.HomeAddress = firstNonNil(id.Address, id.AddressKannada)
		res.KannadaAddress = id.AddressKannada
		if id.AadhaarNumber != nil {
			res.IDProof = MaskAadhaar(*id.AadhaarNumber)
		}
		res.ContactNumber = id.Mobile
		res.DOB = id.DOB
		res.Gender = id.Gender
	}
	if status == StatusVerified {
		res.Land = landFields(land, landName)
	}
	return res
}

// identityName picks the card name in the same script as the land name when
// possible, then English, then Kannada.
func identityName(id *aadhaar.Identity, landName *string) *string {
	if id == nil {
		return nil
	}
	if landName != nil && hasKannada(*landName) && id.NameKannada != nil {
		return id.NameKannada
	}
	return firstNonNil(id.NameEnglish, id.NameKannada)
}

func landFields(land *rtc.Record, owner *string) *Land {
	cultivation := land.Cultivation
	if cultivation == nil {
		cultivation = []rtc.Cultivation{}
	}
	return &Land{
		LandParcelIdentity:   land.LandIdentification.SurveyNumber,
		HissaNumber:          land.LandIdentification.HissaNumber,
		TotalCultivableArea:  land.LandDetails.TotalExtent,
		SoilProperties:       land.LandDetails.SoilType,
		LandTax:              land.LandDetails.LandTax,
		MutationTraceability: mutationTraceability(land.Ownership),
		RTCAddress:           rtcAddress(land.Location),
		KannadaName:          owner,
		OwnershipVerified:    true,
		Cultivation:          cultivation,
	}
}

func mutationTraceability(o rtc.Ownership) *string {
	if o.MutationNo == nil {
		return nil
	}
	s := *o.MutationNo
	if o.MutationDate != nil {
		s += " dated " + *o.MutationDate
	}
	return &s
}

func rtcAddress(loc rtc.Location) *string {
	var parts []string
	for _, p := range []*string{loc.Village, loc.Hobli, loc.Taluk} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, ", ")
	return &s
}

// Normalize prepares a name for comparison: NFC, full case folding,
// whitespace runs collapsed, trimmed. Scripts are not transliterated.
func Normalize(name string) string {
	s := norm.NFC.String(name)
	s = cases.Fold().String(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MaskAadhaar hides all but the last four digits: "Aadhaar: ****9012".
func MaskAadhaar(number string) *string {
	var digits []rune
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return nil
	}
	s := "Aadhaar: ****" + string(digits[len(digits)-4:])
	return &s
}

func hasKannada(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Kannada, r) {
			return true
		}
	}
	return false
}

func firstNonNil(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
