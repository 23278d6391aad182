package normalizer

import (
	"math"

	"github.com/careloop-health/readmit/pkg/common/models"
	"github.com/careloop-health/readmit/pkg/encounter"
	"github.com/careloop-health/readmit/pkg/terminology"
)

// Transformer assembles the outbound prediction payload from an encounter
// form snapshot. It performs no I/O and never rejects a form: missing or
// unparseable numeric fields become 0, which makes a legitimate zero and an
// empty entry indistinguishable downstream. That is inherited behavior.
type Transformer struct {
	catalog terminology.Catalog
}

func NewTransformer(cat terminology.Catalog) *Transformer {
	return &Transformer{catalog: cat}
}

// Transform builds the normalized request once per submission. Lab warnings
// on the form are advisory and deliberately not consulted here.
func (t *Transformer) Transform(form *encounter.Form) models.PredictionRequest {
	if form == nil {
		form = encounter.NewForm()
	}

	return models.PredictionRequest{
		LengthOfStay:       coerceInt(form.DerivedLengthOfStay),
		PreviousAdmissions: form.PreviousAdmissions,
		PatientAge:         coerceInt(form.DerivedAge),
		PatientGender:      string(form.PatientGender),
		DiagnosisChapter:   t.catalog.Code(form.DiagnosisChapter),
		NumLabs:            form.NumLabs,
		HemoglobinAvg:      coerceFloat(form.Lab(encounter.LabHemoglobin)),
		GlucoseAvg:         coerceFloat(form.Lab(encounter.LabGlucose)),
		CreatinineAvg:      coerceFloat(form.Lab(encounter.LabCreatinine)),
		WBCAvg:             coerceFloat(form.Lab(encounter.LabWBC)),
	}
}

func coerceInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func coerceFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
