package encounter

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
	GenderUnset  Gender = ""
)

// Form is the mutable clinical-encounter form held by the client. Derived
// fields are recomputed by the Set* methods and are never written directly,
// so they always agree with their source dates.
type Form struct {
	DateOfBirth   *time.Time
	AdmissionDate *time.Time
	DischargeDate *time.Time

	DerivedAge          *int
	DerivedLengthOfStay *int

	PatientGender      Gender
	DiagnosisChapter   string
	PreviousAdmissions int
	NumLabs            int

	Labs     map[string]float64
	Warnings map[string]string

	// Now is the clock used for age derivation; tests override it.
	Now func() time.Time
}

func NewForm() *Form {
	return &Form{
		Labs:     make(map[string]float64),
		Warnings: make(map[string]string),
		Now:      time.Now,
	}
}

func (f *Form) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// SetDateOfBirth records dob and recomputes the derived age.
func (f *Form) SetDateOfBirth(dob time.Time) {
	f.DateOfBirth = &dob
	age := DeriveAge(dob, f.now())
	f.DerivedAge = &age
}

// SetAdmissionDate records the admission date and recomputes length of stay
// if the discharge date is already known.
func (f *Form) SetAdmissionDate(admission time.Time) {
	f.AdmissionDate = &admission
	f.recomputeStay()
}

// SetDischargeDate records the discharge date and recomputes length of stay
// if the admission date is already known.
func (f *Form) SetDischargeDate(discharge time.Time) {
	f.DischargeDate = &discharge
	f.recomputeStay()
}

func (f *Form) recomputeStay() {
	if f.AdmissionDate == nil || f.DischargeDate == nil {
		return
	}
	los := DeriveLengthOfStay(*f.AdmissionDate, *f.DischargeDate)
	f.DerivedLengthOfStay = &los
}

// SetLab records a lab value and refreshes its advisory warning. The
// warning annotates the field only; submission proceeds regardless.
func (f *Form) SetLab(name string, value float64) {
	if f.Labs == nil {
		f.Labs = make(map[string]float64)
	}
	if f.Warnings == nil {
		f.Warnings = make(map[string]string)
	}
	f.Labs[name] = value
	if msg := ValidateLab(name, value); msg != "" {
		f.Warnings[name] = msg
	} else {
		delete(f.Warnings, name)
	}
}

// Lab returns the recorded value for name, or 0 when unset.
func (f *Form) Lab(name string) float64 {
	return f.Labs[name]
}
