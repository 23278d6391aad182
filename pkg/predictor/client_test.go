package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careloop-health/readmit/pkg/common/models"
)

func samplePayload() models.PredictionRequest {
	return models.PredictionRequest{
		LengthOfStay:     7,
		PatientAge:       64,
		PatientGender:    "Female",
		DiagnosisChapter: "I",
		NumLabs:          4,
		HemoglobinAvg:    11.5,
	}
}

func TestPredictRelaysBodyVerbatim(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %q, want /predict", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}

		var req models.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("downstream received undecodable body: %v", err)
		}
		if req.PatientAge != 64 {
			t.Errorf("PatientAge = %d, want 64", req.PatientAge)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":1,"readmission_probability":72.5,"not_readmitted_probability":27.5,"confidence":72.5}`))
	}))
	defer downstream.Close()

	client := New(downstream.URL, 2*time.Second)
	raw, err := client.Predict(context.Background(), samplePayload(), "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result models.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("relayed body not parseable: %v", err)
	}
	if result.Prediction != 1 || result.ReadmissionProbability != 72.5 {
		t.Fatalf("unexpected relayed result: %+v", result)
	}
}

func TestPredictNon2xxIsUpstreamError(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"encoding failure"}`))
	}))
	defer downstream.Close()

	client := New(downstream.URL, 2*time.Second)
	_, err := client.Predict(context.Background(), samplePayload(), "req-2")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusUnprocessableEntity {
		t.Fatalf("Status = %d, want 422", upstream.Status)
	}
	detail, ok := upstream.Detail.(map[string]interface{})
	if !ok || detail["detail"] != "encoding failure" {
		t.Fatalf("Detail = %#v, want parsed JSON body", upstream.Detail)
	}
}

func TestPredictNonJSONErrorBodyKeptAsString(t *testing.T) {
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer downstream.Close()

	client := New(downstream.URL, 2*time.Second)
	_, err := client.Predict(context.Background(), samplePayload(), "req-3")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Detail != "Internal Server Error" {
		t.Fatalf("Detail = %#v, want raw string body", upstream.Detail)
	}
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer downstream.Close()
	defer close(release)

	client := New(downstream.URL, 50*time.Millisecond)
	_, err := client.Predict(context.Background(), samplePayload(), "req-4")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestPredictConnectionRefused(t *testing.T) {
	// Reserve a port, then close it so the address refuses connections.
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := downstream.URL
	downstream.Close()

	client := New(addr, time.Second)
	_, err := client.Predict(context.Background(), samplePayload(), "req-5")
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("connection refused must not read as a timeout: %v", err)
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		t.Fatalf("connection error must not read as an upstream status: %v", err)
	}
}
