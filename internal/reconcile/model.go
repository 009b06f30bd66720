package reconcile

import "kyc-backend/internal/rtc"

// Status is the outcome of comparing the land-owner name with the identity name.
type Status string

const (
	StatusVerified    Status = "verified"
	StatusNotVerified Status = "not_verified"
	// StatusPending means there is not enough data to compare yet.
	StatusPending Status = "pending"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusVerified, StatusNotVerified, StatusPending:
		return true
	}
	return false
}

// Result is the merged farmer profile data. Identity fields are filled
// whenever the card yielded them. Land is non-nil only when the status is
// verified; when nil none of its keys are serialized.
type Result struct {
	NameVerificationStatus Status  `json:"nameVerificationStatus"`
	VerifiedName           *string `json:"verifiedName"`
	AadhaarKannadaName     *string `json:"aadhaarKannadaName"`
	HomeAddress            *string `json:"homeAddress"`
	KannadaAddress         *string `json:"kannadaAddress"`
	IDProof                *string `json:"idProof"`
	ContactNumber          *string `json:"contactNumber"`
	DOB                    *string `json:"dob"`
	Gender                 *string `json:"gender"`

	*Land
}

// Land holds the fields exposed from a verified RTC.
type Land struct {
	LandParcelIdentity   *string           `json:"landParcelIdentity"`
	HissaNumber          *string           `json:"hissaNumber"`
	TotalCultivableArea  *string           `json:"totalCultivableArea"`
	SoilProperties       *string           `json:"soilProperties"`
	LandTax              *string           `json:"landTax"`
	MutationTraceability *string           `json:"mutationTraceability"`
	RTCAddress           *string           `json:"rtcAddress"`
	KannadaName          *string           `json:"kannadaName"`
	OwnershipVerified    bool              `json:"ownershipVerified"`
	Cultivation          []rtc.Cultivation `json:"cultivation"`
}
