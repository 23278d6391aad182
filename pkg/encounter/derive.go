package encounter

import "time"

// DeriveAge returns whole elapsed years between dob and today, counting a
// year only once the birthday has been reached.
func DeriveAge(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// DeriveLengthOfStay returns the whole-day span discharge - admission.
// A discharge before admission is treated as a zero-day stay, not an error.
func DeriveLengthOfStay(admission, discharge time.Time) int {
	days := int(discharge.Sub(admission) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}
