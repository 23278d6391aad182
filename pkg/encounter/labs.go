package encounter

// OutOfRangeMessage is the advisory warning attached to a lab value outside
// its physiological range. It never blocks submission.
const OutOfRangeMessage = "Out of physiological range"

const (
	LabHemoglobin = "hemoglobin_avg"
	LabGlucose    = "glucose_avg"
	LabCreatinine = "creatinine_avg"
	LabWBC        = "wbc_avg"
)

type labRange struct {
	min, max float64
}

// Inclusive bounds. Values sitting exactly on a bound are valid.
var labRanges = map[string]labRange{
	LabHemoglobin: {0, 30},
	LabGlucose:    {0, 800},
	LabCreatinine: {0, 30},
	LabWBC:        {0, 50000},
}

// LabNames lists the labs the form tracks, in display order.
var LabNames = []string{LabHemoglobin, LabGlucose, LabCreatinine, LabWBC}

// ValidateLab checks value against the physiological range for name and
// returns a warning message, or "" when the value is acceptable. Unknown
// lab names are never flagged.
func ValidateLab(name string, value float64) string {
	r, ok := labRanges[name]
	if !ok {
		return ""
	}
	if value < r.min || value > r.max {
		return OutOfRangeMessage
	}
	return ""
}
