package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/extract"
	"kyc-backend/internal/rtc"
)

const scenarioRTC = `Bengaluru Yelahanka Hebbal 123/45*
Ramesh Kumar . 2.10.5.0 1023 MR-44`

func aadhaarText(name string) string {
	return name + "\nDOB: 15/08/1980\nMALE\n1234 5678 9012\nC/O Krishnappa,\nHebbal, Bengaluru - 560024\nMobile: 9876543210"
}

func parseBoth(rtcText, idText string) (*rtc.Record, *aadhaar.Identity) {
	land := rtc.Parse(extract.Lines(rtcText))
	id := aadhaar.Parse(idText)
	return &land, &id
}

var landKeys = []string{
	"landParcelIdentity", "hissaNumber", "totalCultivableArea", "soilProperties",
	"landTax", "mutationTraceability", "rtcAddress", "kannadaName",
	"ownershipVerified", "cultivation",
}

func toMap(t *testing.T, res Result) map[string]any {
	t.Helper()
	data, err := json.Marshal(res)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestScenarioMatchingNamesVerified(t *testing.T) {
	res := Reconcile(parseBoth(scenarioRTC, aadhaarText("RAMESH KUMAR")))

	assert.Equal(t, StatusVerified, res.NameVerificationStatus)
	require.NotNil(t, res.Land)
	assert.Equal(t, "123/45*", *res.LandParcelIdentity)
	assert.Equal(t, "45", *res.HissaNumber)
	assert.Equal(t, "2.10.5.0", *res.TotalCultivableArea)
	assert.Equal(t, "MR-44", *res.MutationTraceability)
	assert.Equal(t, "Hebbal, Yelahanka, Bengaluru", *res.RTCAddress)
	assert.Equal(t, "Ramesh Kumar", *res.KannadaName)
	assert.True(t, res.OwnershipVerified)
	assert.NotNil(t, res.Cultivation)

	m := toMap(t, res)
	for _, k := range landKeys {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "Aadhaar: ****9012", m["idProof"])
}

func TestScenarioDifferentNamesNotVerified(t *testing.T) {
	res := Reconcile(parseBoth(scenarioRTC, aadhaarText("SURESH KUMAR")))

	assert.Equal(t, StatusNotVerified, res.NameVerificationStatus)
	assert.Nil(t, res.Land)
	require.NotNil(t, res.HomeAddress)
	assert.Equal(t, "C/O Krishnappa, Hebbal, Bengaluru - 560024", *res.HomeAddress)
	assert.Equal(t, "Aadhaar: ****9012", *res.IDProof)
	assert.Equal(t, "SURESH KUMAR", *res.VerifiedName)
	assert.Equal(t, "9876543210", *res.ContactNumber)

	m := toMap(t, res)
	for _, k := range landKeys {
		assert.NotContains(t, m, k)
	}
}

func TestScenarioLabelRowGender(t *testing.T) {
	idText := "RAMESH KUMAR\nGender: MALE / FEMALE\nFEMALE\n1234 5678 9012"
	res := Reconcile(parseBoth(scenarioRTC, idText))

	require.NotNil(t, res.Gender)
	assert.Equal(t, aadhaar.GenderFemale, *res.Gender)
	assert.Equal(t, StatusVerified, res.NameVerificationStatus)
}

func TestPendingWhenEitherNameMissing(t *testing.T) {
	land, id := parseBoth(scenarioRTC, aadhaarText("RAMESH KUMAR"))

	cases := []struct {
		name string
		land *rtc.Record
		id   *aadhaar.Identity
	}{
		{name: "no documents", land: nil, id: nil},
		{name: "no identity", land: land, id: nil},
		{name: "no land", land: nil, id: id},
		{name: "identity without names", land: land, id: &aadhaar.Identity{AadhaarNumber: id.AadhaarNumber}},
		{name: "land without owners", land: &rtc.Record{Ownership: rtc.Ownership{Owners: []string{}}}, id: id},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Reconcile(tc.land, tc.id)
			assert.Equal(t, StatusPending, res.NameVerificationStatus)
			assert.Nil(t, res.Land)
			m := toMap(t, res)
			for _, k := range landKeys {
				assert.NotContains(t, m, k)
			}
		})
	}
}

func TestIdentityFieldsIndependentOfStatus(t *testing.T) {
	_, id := parseBoth("", aadhaarText("RAMESH KUMAR"))
	res := Reconcile(nil, id)

	assert.Equal(t, StatusPending, res.NameVerificationStatus)
	assert.Equal(t, "RAMESH KUMAR", *res.VerifiedName)
	assert.Equal(t, "15/08/1980", *res.DOB)
	assert.Equal(t, aadhaar.GenderMale, *res.Gender)
	assert.Equal(t, "Aadhaar: ****9012", *res.IDProof)
}

func TestKannadaOwnerComparedWithKannadaName(t *testing.T) {
	owner := "ರಮೇಶ್ ಕುಮಾರ್"
	land := &rtc.Record{Ownership: rtc.Ownership{Owners: []string{owner, "ಸುಮ"}}}
	english := "RAMESH KUMAR"
	kannada := "ರಮೇಶ್  ಕುಮಾರ್ "

	res := Reconcile(land, &aadhaar.Identity{NameEnglish: &english, NameKannada: &kannada})
	assert.Equal(t, StatusVerified, res.NameVerificationStatus)
	assert.Equal(t, owner, *res.KannadaName)
	assert.Equal(t, english, *res.VerifiedName)

	res = Reconcile(land, &aadhaar.Identity{NameEnglish: &english})
	assert.Equal(t, StatusNotVerified, res.NameVerificationStatus, "scripts are not transliterated")
}

func TestMutationTraceabilityIncludesDate(t *testing.T) {
	no, date := "MR-44", "12/05/2020"
	got := mutationTraceability(rtc.Ownership{MutationNo: &no, MutationDate: &date})
	require.NotNil(t, got)
	assert.Equal(t, "MR-44 dated 12/05/2020", *got)
	assert.Nil(t, mutationTraceability(rtc.Ownership{MutationDate: &date}))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Normalize("RAMESH KUMAR"), Normalize("  ramesh\tkumar "))
	// Decomposed and precomposed forms compare equal.
	assert.Equal(t, Normalize("Jos\u00e9"), Normalize("JOSE\u0301"))
	assert.Equal(t, Normalize("\u0c95\u0ccb"), Normalize("\u0c95\u0cca\u0cd5"))
	assert.NotEqual(t, Normalize("RAMESH KUMAR"), Normalize("SURESH KUMAR"))
}

func TestMaskAadhaar(t *testing.T) {
	got := MaskAadhaar("1234 5678 9012")
	require.NotNil(t, got)
	assert.Equal(t, "Aadhaar: ****9012", *got)
	assert.Nil(t, MaskAadhaar("12 3"))
	assert.Nil(t, MaskAadhaar(""))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusVerified.Valid())
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("processing").Valid())
}
