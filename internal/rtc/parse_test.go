package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecordLines() []string {
	return []string{
		"ಯಲಹಂಕ ಹೆಸರಘಟ್ಟ ಹೆಬ್ಬಾಳ ಸರ್ವೆ ನಂಬರ್ 123/45*",
		"Valid from 01/04/2023 10:30",
		"2.10.5.0",
		"0.02.0.0",
		"0.01.0.0",
		"ಕಂದಾಯ 12.50",
		"ಮಣ್ಣಿನ ನಮೂನೆ",
		"ಕೆಂಪು ಮಣ್ಣು",
		"ರಮೇಶ್ ಕುಮಾರ್.ಸುರೇಶ್ 2.10.5.0 1023 MR-44/2020",
		"2023-2024 ಪೂ. ಮುಂಗಾರು ಹುರುಳಿ 1.00.0.0",
		"2022-2023 ಮುಂಗಾರು ರಾಗಿ 0.20.0.0",
	}
}

func val(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestParseFullRecord(t *testing.T) {
	rec := Parse(fullRecordLines())

	assert.Equal(t, "ಯಲಹಂಕ", val(rec.Location.Taluk))
	assert.Equal(t, "ಹೆಸರಘಟ್ಟ", val(rec.Location.Hobli))
	assert.Equal(t, "ಹೆಬ್ಬಾಳ", val(rec.Location.Village))

	assert.Equal(t, "123/45*", val(rec.LandIdentification.SurveyNumber))
	assert.Equal(t, "45", val(rec.LandIdentification.HissaNumber))
	assert.Equal(t, "01/04/2023 10:30", val(rec.LandIdentification.ValidFrom))

	assert.Equal(t, "2.10.5.0", val(rec.LandDetails.TotalExtent))
	assert.Equal(t, "0.02.0.0", val(rec.LandDetails.PhutKharabA))
	assert.Equal(t, "0.01.0.0", val(rec.LandDetails.PhutKharabB))
	assert.Equal(t, "2.10.5.0", val(rec.LandDetails.RemainingExtent))
	assert.Equal(t, "12.50", val(rec.LandDetails.LandTax))
	assert.Equal(t, "ಕೆಂಪು ಮಣ್ಣು", val(rec.LandDetails.SoilType))

	assert.Equal(t, []string{"ರಮೇಶ್ ಕುಮಾರ್", "ಸುರೇಶ್"}, rec.Ownership.Owners)
	assert.Equal(t, "2.10.5.0", val(rec.Ownership.Extent))
	assert.Equal(t, "1023", val(rec.Ownership.AccountNo))
	assert.Equal(t, "MR-44/2020", val(rec.Ownership.MutationNo))
	// The first date anywhere in the record wins, here the valid-from line.
	assert.Equal(t, "01/04/2023", val(rec.Ownership.MutationDate))

	require.Len(t, rec.Cultivation, 2)
	assert.Equal(t, "2023-2024", val(rec.Cultivation[0].Year))
	assert.Equal(t, SeasonPreMonsoon, val(rec.Cultivation[0].Season))
	assert.Equal(t, "ಹು", val(rec.Cultivation[0].Crop))
	assert.Equal(t, "1.00.0.0", val(rec.Cultivation[0].Extent))
	assert.Equal(t, SeasonPostMonsoon, val(rec.Cultivation[1].Season))
	assert.Nil(t, rec.Cultivation[1].Crop)

	name := rec.OwnerName()
	require.NotNil(t, name)
	assert.Equal(t, "ರಮೇಶ್ ಕುಮಾರ್", *name)
}

func TestParseWithoutMarkersIsAllNil(t *testing.T) {
	for _, lines := range [][]string{
		nil,
		{},
		{"Government of Karnataka", "nothing useful here", "page 1 of 1"},
	} {
		rec := Parse(lines)
		assert.Equal(t, empty(), rec)
		assert.Nil(t, rec.OwnerName())
	}
}

func TestParseIsIdempotent(t *testing.T) {
	lines := fullRecordLines()
	first := Parse(lines)
	second := Parse(lines)
	assert.Equal(t, first, second)
	assert.Equal(t, fullRecordLines(), lines, "input must not be mutated")
}

func TestParseLocationFallsBackToStarredSurveyToken(t *testing.T) {
	rec := Parse([]string{
		"Bengaluru Yelahanka Hebbal 123/45*",
		"Ramesh Kumar . 2.10.5.0 1023 MR-44",
	})

	assert.Equal(t, "Bengaluru", val(rec.Location.Taluk))
	assert.Equal(t, "Yelahanka", val(rec.Location.Hobli))
	assert.Equal(t, "Hebbal", val(rec.Location.Village))
	assert.Equal(t, "123/45*", val(rec.LandIdentification.SurveyNumber))
	assert.Equal(t, "45", val(rec.LandIdentification.HissaNumber))
	assert.Equal(t, []string{"Ramesh Kumar"}, rec.Ownership.Owners)
	assert.Equal(t, "1023", val(rec.Ownership.AccountNo))
	assert.Equal(t, "MR-44", val(rec.Ownership.MutationNo))
	assert.Nil(t, rec.Ownership.MutationDate)
}

func TestParseLocationShortLine(t *testing.T) {
	rec := Parse([]string{"ನಂಬರ್"})
	assert.Equal(t, "ನಂಬರ್", val(rec.Location.Taluk))
	assert.Nil(t, rec.Location.Hobli)
	assert.Nil(t, rec.Location.Village)
	assert.Nil(t, rec.LandIdentification.SurveyNumber)
	assert.Nil(t, rec.LandIdentification.HissaNumber)
}

func TestHissaFromSurvey(t *testing.T) {
	cases := map[string]string{
		"123/45*":  "45",
		"12/3/4A*": "4A",
		"77*":      "77",
		"12/*":     "<nil>",
	}
	for survey, want := range cases {
		s := survey
		assert.Equal(t, want, val(hissaFromSurvey(&s)), survey)
	}
	assert.Nil(t, hissaFromSurvey(nil))
}

func TestParseOwnershipRules(t *testing.T) {
	t.Run("requires a whole-word MR", func(t *testing.T) {
		rec := Parse([]string{"Ramesh . 2.10.5.0 1023 MRX-44"})
		assert.Empty(t, rec.Ownership.Owners)
		assert.Nil(t, rec.Ownership.Extent)
	})

	t.Run("mutation number match is case-insensitive", func(t *testing.T) {
		rec := Parse([]string{"Ramesh.Suma 1.2.3.4 99 x mr 55 mr-55"})
		assert.Equal(t, []string{"Ramesh", "Suma"}, rec.Ownership.Owners)
		assert.Equal(t, "99", val(rec.Ownership.AccountNo))
		assert.Equal(t, "mr", val(rec.Ownership.MutationNo))
	})

	t.Run("missing trailing tokens stay nil", func(t *testing.T) {
		rec := Parse([]string{"MR Ramesh. 1.2.3.4"})
		assert.Equal(t, []string{"MR Ramesh"}, rec.Ownership.Owners)
		assert.Equal(t, "1.2.3.4", val(rec.Ownership.Extent))
		assert.Nil(t, rec.Ownership.AccountNo)
		assert.Nil(t, rec.Ownership.MutationNo)
	})
}

func TestParseLandDetailsEdges(t *testing.T) {
	rec := Parse([]string{"ನಮೂನೆ"})
	assert.Nil(t, rec.LandDetails.SoilType, "marker on the last line has no following line")

	rec = Parse([]string{"1.2.3.4", "not an extent"})
	assert.Equal(t, "1.2.3.4", val(rec.LandDetails.TotalExtent))
	assert.Nil(t, rec.LandDetails.PhutKharabA)
	assert.Nil(t, rec.LandDetails.PhutKharabB)
}
