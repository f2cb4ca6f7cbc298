package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/career-compass/internal/observability"
	"github.com/jonathan/career-compass/internal/types"
)

var assessProfileFile string

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Submit a skills assessment",
	Long: `Submits the profile in a JSON or YAML file for analysis, stores it as the owner's
latest assessment and prints the recommended role and career matches.`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&assessProfileFile, "profile", "p", "", "Path to profile JSON or YAML file (required)")
	if err := assessCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile(assessProfileFile)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.facade.SubmitAssessment(ctx, ownerID, profile)
	if err != nil {
		return fmt.Errorf("failed to submit assessment: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(resp.Analysis, resp.Recommendations)
	return nil
}

// loadProfile reads a profile, parsing YAML for .yaml and .yml files and JSON otherwise.
// JSON documents get the same shape check as the HTTP API.
func loadProfile(path string) (types.AssessmentProfile, error) {
	var profile types.AssessmentProfile

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read profile file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return profile, fmt.Errorf("failed to parse profile YAML: %w", err)
		}
	default:
		if !types.ValidateAssessmentJSON(data) {
			return profile, fmt.Errorf("profile must have educationLevel, interests and a skills object")
		}
		if err := json.Unmarshal(data, &profile); err != nil {
			return profile, fmt.Errorf("failed to parse profile JSON: %w", err)
		}
	}
	return profile, nil
}
