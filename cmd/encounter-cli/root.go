package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	gatewayURL  string
	email       string
	password    string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "encounter-cli",
	Short: "Clinical encounter form client for the readmission prediction gateway",
	Long: "Builds a clinical-encounter form from flags, derives age and length of stay, " +
		"checks lab values against physiological ranges, normalizes the payload and " +
		"submits it to the prediction gateway.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&gatewayURL, "gateway", envOr("GATEWAY_URL", "http://localhost:5000"), "Prediction gateway base URL")
	pf.StringVar(&email, "email", os.Getenv("GATEWAY_EMAIL"), "Operator email")
	pf.StringVar(&password, "password", os.Getenv("GATEWAY_PASSWORD"), "Operator password")
	pf.StringVar(&catalogPath, "catalog", os.Getenv("CHAPTER_CATALOG_PATH"), "Diagnosis chapter catalog YAML (default: built-in)")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
