package rtc

// Record holds the fields read from an RTC (Record of Rights, Tenancy and
// Crops). Each leaf is independently optional: nil means the line that
// carries it was not found.
type Record struct {
	Location           Location           `json:"location"`
	LandIdentification LandIdentification `json:"land_identification"`
	LandDetails        LandDetails        `json:"land_details"`
	Ownership          Ownership          `json:"ownership"`
	Cultivation        []Cultivation      `json:"cultivation"`
}

type Location struct {
	Taluk   *string `json:"taluk"`
	Hobli   *string `json:"hobli"`
	Village *string `json:"village"`
}

type LandIdentification struct {
	SurveyNumber *string `json:"survey_number"`
	HissaNumber  *string `json:"hissa_number"`
	ValidFrom    *string `json:"valid_from"`
}

type LandDetails struct {
	TotalExtent *string `json:"total_extent"`
	PhutKharabA *string `json:"phut_kharab_a"`
	PhutKharabB *string `json:"phut_kharab_b"`
	// RemainingExtent mirrors TotalExtent; the record has no separate figure we can read reliably.
	RemainingExtent *string `json:"remaining_extent"`
	LandTax         *string `json:"land_tax"`
	SoilType        *string `json:"soil_type"`
}

type Ownership struct {
	Owners       []string `json:"owners"`
	Extent       *string  `json:"extent"`
	AccountNo    *string  `json:"account_no"`
	MutationNo   *string  `json:"mutation_no"`
	MutationDate *string  `json:"mutation_date"`
}

type Cultivation struct {
	Year   *string `json:"year"`
	Season *string `json:"season"`
	Crop   *string `json:"crop"`
	Extent *string `json:"extent"`
}

// OwnerName is the canonical land-owner name: the first listed owner.
func (r *Record) OwnerName() *string {
	if r == nil || len(r.Ownership.Owners) == 0 {
		return nil
	}
	name := r.Ownership.Owners[0]
	return &name
}
