package normalizer

import (
	"math"
	"testing"
	"time"

	"github.com/careloop-health/readmit/pkg/encounter"
	"github.com/careloop-health/readmit/pkg/terminology"
)

func testForm(now time.Time) *encounter.Form {
	form := encounter.NewForm()
	form.Now = func() time.Time { return now }
	return form
}

func TestTransformFullForm(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	form := testForm(now)
	form.SetDateOfBirth(time.Date(1960, time.March, 10, 0, 0, 0, 0, time.UTC))
	form.SetAdmissionDate(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
	form.SetDischargeDate(time.Date(2024, time.May, 8, 0, 0, 0, 0, time.UTC))
	form.PatientGender = encounter.GenderFemale
	form.DiagnosisChapter = "IX - Circulatory system"
	form.PreviousAdmissions = 2
	form.NumLabs = 4
	form.SetLab(encounter.LabHemoglobin, 11.5)
	form.SetLab(encounter.LabGlucose, 140)
	form.SetLab(encounter.LabCreatinine, 1.2)
	form.SetLab(encounter.LabWBC, 9000)

	req := NewTransformer(terminology.DefaultCatalog()).Transform(form)

	if req.PatientAge != 64 {
		t.Errorf("PatientAge = %d, want 64", req.PatientAge)
	}
	if req.LengthOfStay != 7 {
		t.Errorf("LengthOfStay = %d, want 7", req.LengthOfStay)
	}
	if req.DiagnosisChapter != "I" {
		t.Errorf("DiagnosisChapter = %q, want I", req.DiagnosisChapter)
	}
	if req.PatientGender != "Female" {
		t.Errorf("PatientGender = %q, want Female", req.PatientGender)
	}
	if req.HemoglobinAvg != 11.5 || req.GlucoseAvg != 140 || req.CreatinineAvg != 1.2 || req.WBCAvg != 9000 {
		t.Errorf("lab averages not carried: %+v", req)
	}
}

func TestTransformEmptyFormYieldsZeroes(t *testing.T) {
	req := NewTransformer(terminology.DefaultCatalog()).Transform(encounter.NewForm())

	if req.PatientAge != 0 || req.LengthOfStay != 0 || req.PreviousAdmissions != 0 || req.NumLabs != 0 {
		t.Errorf("unset numeric fields must coerce to 0: %+v", req)
	}
	if req.HemoglobinAvg != 0 || req.GlucoseAvg != 0 || req.CreatinineAvg != 0 || req.WBCAvg != 0 {
		t.Errorf("unset labs must coerce to 0: %+v", req)
	}
	if req.DiagnosisChapter != "" {
		t.Errorf("unset chapter must encode empty, got %q", req.DiagnosisChapter)
	}
	if req.PatientGender != "" {
		t.Errorf("unset gender must pass through empty, got %q", req.PatientGender)
	}
}

func TestTransformCoercesNaNToZero(t *testing.T) {
	form := encounter.NewForm()
	form.Labs[encounter.LabGlucose] = math.NaN()
	form.Labs[encounter.LabWBC] = math.Inf(1)

	req := NewTransformer(terminology.DefaultCatalog()).Transform(form)

	if req.GlucoseAvg != 0 {
		t.Errorf("NaN glucose must coerce to 0, got %v", req.GlucoseAvg)
	}
	if req.WBCAvg != 0 {
		t.Errorf("Inf wbc must coerce to 0, got %v", req.WBCAvg)
	}
}

func TestTransformUnmappedChapter(t *testing.T) {
	form := encounter.NewForm()
	form.DiagnosisChapter = "XXI - Health status factors"

	req := NewTransformer(terminology.DefaultCatalog()).Transform(form)
	if req.DiagnosisChapter != "" {
		t.Errorf("chapter XXI must encode empty, got %q", req.DiagnosisChapter)
	}
}

func TestTransformGenderPassthrough(t *testing.T) {
	form := encounter.NewForm()
	form.PatientGender = encounter.Gender("Nonstandard")

	req := NewTransformer(terminology.DefaultCatalog()).Transform(form)
	if req.PatientGender != "Nonstandard" {
		t.Errorf("gender must pass through verbatim, got %q", req.PatientGender)
	}
}

func TestTransformNilFormIsSafe(t *testing.T) {
	req := NewTransformer(terminology.DefaultCatalog()).Transform(nil)
	if req.PatientAge != 0 || req.DiagnosisChapter != "" {
		t.Errorf("nil form should normalize to the zero payload: %+v", req)
	}
}
