package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/careloop-health/readmit/pkg/common/models"
	"github.com/careloop-health/readmit/pkg/encounter"
	"github.com/careloop-health/readmit/pkg/gateway/httpclient"
	"github.com/careloop-health/readmit/pkg/normalizer"
	"github.com/careloop-health/readmit/pkg/terminology"
)

const dateLayout = "2006-01-02"

var (
	dobFlag            string
	admittedFlag       string
	dischargedFlag     string
	genderFlag         string
	chapterFlag        string
	previousAdmissions int
	numLabs            int
	hemoglobin         float64
	glucose            float64
	creatinine         float64
	wbc                float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit an encounter and print the readmission verdict",
	RunE:  runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&dobFlag, "dob", "", "Date of birth (YYYY-MM-DD)")
	f.StringVar(&admittedFlag, "admitted", "", "Admission date (YYYY-MM-DD)")
	f.StringVar(&dischargedFlag, "discharged", "", "Discharge date (YYYY-MM-DD)")
	f.StringVar(&genderFlag, "gender", "", "Patient gender: Male, Female or Other")
	f.StringVar(&chapterFlag, "chapter", "", `Diagnosis chapter label, e.g. "IX - Circulatory system"`)
	f.IntVar(&previousAdmissions, "previous-admissions", 0, "Number of previous admissions")
	f.IntVar(&numLabs, "num-labs", 0, "Number of labs taken during the stay")
	f.Float64Var(&hemoglobin, "hemoglobin", 0, "Average hemoglobin")
	f.Float64Var(&glucose, "glucose", 0, "Average glucose")
	f.Float64Var(&creatinine, "creatinine", 0, "Average creatinine")
	f.Float64Var(&wbc, "wbc", 0, "Average white blood cell count")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	form, err := buildForm(cmd)
	if err != nil {
		return err
	}

	// Lab warnings are advisory: print them and submit anyway, the same way
	// the original form did.
	for _, name := range encounter.LabNames {
		if msg, flagged := form.Warnings[name]; flagged {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", name, msg)
		}
	}

	catalog, err := terminology.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("loading chapter catalog: %w", err)
	}

	payload := normalizer.NewTransformer(catalog).Transform(form)

	client := httpclient.New(30 * time.Second)
	token, err := login(client)
	if err != nil {
		return err
	}

	result, err := predict(client, token, payload)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func buildForm(cmd *cobra.Command) (*encounter.Form, error) {
	form := encounter.NewForm()

	if dobFlag != "" {
		dob, err := time.Parse(dateLayout, dobFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --dob: %w", err)
		}
		form.SetDateOfBirth(dob)
	}
	if admittedFlag != "" {
		admitted, err := time.Parse(dateLayout, admittedFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --admitted: %w", err)
		}
		form.SetAdmissionDate(admitted)
	}
	if dischargedFlag != "" {
		discharged, err := time.Parse(dateLayout, dischargedFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --discharged: %w", err)
		}
		form.SetDischargeDate(discharged)
	}

	form.PatientGender = encounter.Gender(genderFlag)
	form.DiagnosisChapter = chapterFlag
	form.PreviousAdmissions = previousAdmissions
	form.NumLabs = numLabs

	labs := map[string]float64{
		encounter.LabHemoglobin: hemoglobin,
		encounter.LabGlucose:    glucose,
		encounter.LabCreatinine: creatinine,
		encounter.LabWBC:        wbc,
	}
	for _, name := range encounter.LabNames {
		if cmd.Flags().Changed(flagForLab(name)) {
			form.SetLab(name, labs[name])
		}
	}

	return form, nil
}

func flagForLab(name string) string {
	switch name {
	case encounter.LabHemoglobin:
		return "hemoglobin"
	case encounter.LabGlucose:
		return "glucose"
	case encounter.LabCreatinine:
		return "creatinine"
	case encounter.LabWBC:
		return "wbc"
	}
	return name
}

func login(client *http.Client) (string, error) {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(gatewayURL+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed")
	}

	var tokenResp models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if tokenResp.Token == "" {
		return "", fmt.Errorf("login returned an empty token")
	}
	return tokenResp.Token, nil
}

func predict(client *http.Client, token string, payload models.PredictionRequest) (*models.PredictionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, gatewayURL+"/api/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr models.APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != nil {
			return nil, fmt.Errorf("prediction failed: %v", apiErr.Error)
		}
		return nil, fmt.Errorf("prediction failed with status %d", resp.StatusCode)
	}

	var result models.PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding prediction result: %w", err)
	}
	return &result, nil
}

func printResult(result *models.PredictionResult) {
	verdict := "Not Readmitted"
	if result.Prediction == 1 {
		verdict = "Readmitted"
	}
	fmt.Println("Prediction Result")
	fmt.Printf("  Readmission Risk:           %.1f%%\n", result.ReadmissionProbability)
	fmt.Printf("  Not Readmitted Probability: %.1f%%\n", result.NotReadmittedProbability)
	fmt.Printf("  Prediction:                 %s\n", verdict)
	fmt.Printf("  Confidence:                 %.1f%%\n", result.Confidence)
}
