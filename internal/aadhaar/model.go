package aadhaar

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Identity holds the fields read from an Aadhaar card. All fields are
// independently optional.
type Identity struct {
	AadhaarNumber  *string `json:"aadhaar_number"`
	NameEnglish    *string `json:"name_english"`
	NameKannada    *string `json:"name_kannada"`
	DOB            *string `json:"dob"`
	Gender         *string `json:"gender"`
	Mobile         *string `json:"mobile"`
	Address        *string `json:"address"`
	AddressKannada *string `json:"address_kannada"`
}
