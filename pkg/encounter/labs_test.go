package encounter

import "testing"

func TestValidateLabBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		lab     string
		value   float64
		flagged bool
	}{
		{"hemoglobin upper bound inclusive", LabHemoglobin, 30, false},
		{"hemoglobin just above range", LabHemoglobin, 31, true},
		{"hemoglobin 35 flagged", LabHemoglobin, 35, true},
		{"hemoglobin lower bound inclusive", LabHemoglobin, 0, false},
		{"hemoglobin negative", LabHemoglobin, -1, true},
		{"glucose upper bound inclusive", LabGlucose, 800, false},
		{"glucose just above range", LabGlucose, 801, true},
		{"glucose typical", LabGlucose, 110, false},
		{"creatinine upper bound inclusive", LabCreatinine, 30, false},
		{"creatinine just above range", LabCreatinine, 31, true},
		{"wbc upper bound inclusive", LabWBC, 50000, false},
		{"wbc just above range", LabWBC, 50001, true},
		{"wbc zero", LabWBC, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := ValidateLab(tc.lab, tc.value)
			if tc.flagged && msg != OutOfRangeMessage {
				t.Fatalf("ValidateLab(%s, %v) = %q, want %q", tc.lab, tc.value, msg, OutOfRangeMessage)
			}
			if !tc.flagged && msg != "" {
				t.Fatalf("ValidateLab(%s, %v) = %q, want no message", tc.lab, tc.value, msg)
			}
		})
	}
}

func TestValidateLabUnknownName(t *testing.T) {
	if msg := ValidateLab("sodium_avg", 9999); msg != "" {
		t.Fatalf("unknown lab should never be flagged, got %q", msg)
	}
}
