package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wayfarer/internal/modules/safety"
	"wayfarer/internal/pipeline"
)

var safetyPayloadPath string

var safetyCmd = &cobra.Command{
	Use:   "safety",
	Short: "Vet trip vendors for scam signals",
	Long:  "Scores each vendor item for scam risk and merges the verdicts into a traveler-facing safety report. Without --payload a demo payload is used so the signals are visible.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		payload, err := loadSafetyPayload(safetyPayloadPath)
		if err != nil {
			return err
		}

		src, closeSources, err := newSources()
		if err != nil {
			return err
		}
		defer closeSources()

		checker := pipeline.NewSafety(cfg.Safety, src)
		report, err := checker.Run(ctx, payload)
		if err != nil {
			return err
		}

		return printJSON(report)
	},
}

func loadSafetyPayload(path string) (safety.PlannerPayload, error) {
	if path == "" {
		zap.L().Info("no payload file given, using demo items")
		return demoSafetyPayload(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return safety.PlannerPayload{}, fmt.Errorf("read payload: %w", err)
	}
	var payload safety.PlannerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return safety.PlannerPayload{}, fmt.Errorf("parse payload: %w", err)
	}
	return payload, nil
}

func demoSafetyPayload() safety.PlannerPayload {
	price1, price2 := 5.0, 8.0
	return safety.PlannerPayload{
		City:    "Kandy",
		Country: "LK",
		Date:    time.Now().Format("2006-01-02"),
		Items: []safety.Item{
			{
				Name:           "Temple of the Tooth ticket",
				URL:            "http://tooth-temple.shop",
				Price:          &price1,
				PaymentMethods: []string{"whatsapp"},
			},
			{
				Name:           "Colombo city tuk-tuk tour",
				URL:            "https://supercheep-tours.com",
				Price:          &price2,
				PaymentMethods: []string{"cash"},
			},
		},
	}
}

func init() {
	safetyCmd.Flags().StringVar(&safetyPayloadPath, "payload", "", "path to a planner payload JSON file")
	rootCmd.AddCommand(safetyCmd)
}
