package models

import "time"

// Auth wire types
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// APIMessage is the error envelope the auth endpoints speak:
// {"message": "Invalid credentials"} and friends.
type APIMessage struct {
	Message string `json:"message"`
}

// APIError is the upstream-failure envelope: {"error": <detail>}. Detail is
// the downstream body when it parsed as JSON, otherwise a plain string.
type APIError struct {
	Error interface{} `json:"error"`
}

// PredictionRequest is the flat, fully normalized payload the model service
// accepts at POST /predict. Numeric fields are already coerced (missing or
// invalid entries arrive as 0) and DiagnosisChapter carries the model's
// categorical code, not the human-readable chapter label.
type PredictionRequest struct {
	LengthOfStay       int     `json:"LengthOfStay"`
	PreviousAdmissions int     `json:"PreviousAdmissions"`
	PatientAge         int     `json:"PatientAge"`
	PatientGender      string  `json:"PatientGender"`
	DiagnosisChapter   string  `json:"DiagnosisChapter"`
	NumLabs            int     `json:"NumLabs"`
	HemoglobinAvg      float64 `json:"hemoglobin_avg"`
	GlucoseAvg         float64 `json:"glucose_avg"`
	CreatinineAvg      float64 `json:"creatinine_avg"`
	WBCAvg             float64 `json:"wbc_avg"`
}

// PredictionResult mirrors the model service response. The gateway relays
// the downstream body verbatim; this type exists for clients.
type PredictionResult struct {
	Prediction               int     `json:"prediction"`
	ReadmissionProbability   float64 `json:"readmission_probability"`
	NotReadmittedProbability float64 `json:"not_readmitted_probability"`
	Confidence               float64 `json:"confidence"`
}

// PredictionEvent is published to the analytics stream after a successful
// relay. It carries no patient-identifying fields.
type PredictionEvent struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	Subject    string    `json:"subject"`
	Prediction int       `json:"prediction"`
	Confidence float64   `json:"confidence"`
	LatencyMS  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
