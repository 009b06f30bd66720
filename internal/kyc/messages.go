package kyc

import (
	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/reconcile"
	"kyc-backend/internal/rtc"
)

// message explains the verification outcome and names the next step.
func message(status reconcile.Status, land *rtc.Record, id *aadhaar.Identity) string {
	switch status {
	case reconcile.StatusVerified:
		return "Your documents were read and the owner name on your RTC matches your Aadhaar. Your land details are now on your profile."
	case reconcile.StatusNotVerified:
		return "Your Aadhaar details were saved. The owner name on the RTC is different from the name on your Aadhaar, so land details are not shown yet. Please upload an RTC that lists you as an owner."
	}

	switch {
	case land.OwnerName() == nil && (id == nil || (id.NameEnglish == nil && id.NameKannada == nil)):
		return "Your documents were received but no names could be read yet. Please upload clear PDF copies of your RTC and Aadhaar together."
	case land.OwnerName() == nil:
		return "Your Aadhaar details were saved. Please upload your RTC together with your Aadhaar so we can match the owner name and add your land details."
	default:
		return "Your RTC was read. Please upload your Aadhaar together with your RTC so we can match the owner name and add your land details."
	}
}
