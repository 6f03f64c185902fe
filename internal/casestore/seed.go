package casestore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ledgerline/riskline/internal/model"
)

const demoModelVersion = "granite-13b-instruct-v2"

// Seed loads the built-in demo corpus of flagged transactions.
func (s *Store) Seed() error {
	now := time.Now()

	demo := []model.Case{
		{
			ID:           "550e8400-e29b-41d4-a716-446655440000",
			CustomerName: "Alice Johnson",
			Amount:       5300.00,
			Country:      "SG",
			RiskScore:    0.82,
			Status:       model.StatusNew,
			CreatedAt:    now.Add(-2 * time.Hour),
		},
		{
			ID:                   "660e8400-e29b-41d4-a716-446655440001",
			CustomerName:         "Robert Chen",
			Amount:               12000.00,
			Country:              "US",
			RiskScore:            0.54,
			Status:               model.StatusReviewing,
			CreatedAt:            now.Add(-5 * time.Hour),
			ExplanationGenerated: true,
			ModelVersion:         demoModelVersion,
			TokensUsed:           287,
		},
		{
			ID:                   "770e8400-e29b-41d4-a716-446655440002",
			CustomerName:         "Maria Gonzalez",
			Amount:               450.00,
			Country:              "US",
			RiskScore:            0.18,
			Status:               model.StatusResolved,
			CreatedAt:            now.Add(-24 * time.Hour),
			ExplanationGenerated: true,
			ModelVersion:         demoModelVersion,
			TokensUsed:           245,
		},
		{
			ID:           "880e8400-e29b-41d4-a716-446655440003",
			CustomerName: "John Smith",
			Amount:       9800.00,
			Country:      "US",
			RiskScore:    0.94,
			Status:       model.StatusNew,
			CreatedAt:    now.Add(-1 * time.Hour),
		},
		{
			ID:                   "990e8400-e29b-41d4-a716-446655440004",
			CustomerName:         "Sarah Williams",
			Amount:               7500.00,
			Country:              "GB",
			RiskScore:            0.65,
			Status:               model.StatusReviewing,
			CreatedAt:            now.Add(-8 * time.Hour),
			ExplanationGenerated: true,
			ModelVersion:         demoModelVersion,
			TokensUsed:           312,
		},
		{
			ID:           "aa0e8400-e29b-41d4-a716-446655440005",
			CustomerName: "David Lee",
			Amount:       3200.00,
			Country:      "KR",
			RiskScore:    0.47,
			Status:       model.StatusNew,
			CreatedAt:    now.Add(-3 * time.Hour),
		},
		{
			ID:                   "bb0e8400-e29b-41d4-a716-446655440006",
			CustomerName:         "Emma Brown",
			Amount:               15000.00,
			Country:              "AU",
			RiskScore:            0.71,
			Status:               model.StatusReviewing,
			CreatedAt:            now.Add(-6 * time.Hour),
			ExplanationGenerated: true,
			ModelVersion:         demoModelVersion,
			TokensUsed:           356,
		},
		{
			ID:                   "cc0e8400-e29b-41d4-a716-446655440007",
			CustomerName:         "Michael Taylor",
			Amount:               890.00,
			Country:              "US",
			RiskScore:            0.23,
			Status:               model.StatusResolved,
			CreatedAt:            now.Add(-48 * time.Hour),
			ExplanationGenerated: true,
			ModelVersion:         demoModelVersion,
			TokensUsed:           198,
		},
		{
			ID:           "dd0e8400-e29b-41d4-a716-446655440008",
			CustomerName: "Lisa Anderson",
			Amount:       22000.00,
			Country:      "CH",
			RiskScore:    0.88,
			Status:       model.StatusNew,
			CreatedAt:    now.Add(-45 * time.Minute),
		},
		{
			ID:                   "ee0e8400-e29b-41d4-a716-446655440009",
			CustomerName:         "James Wilson",
			Amount:               1250.00,
			Country:              "CA",
			RiskScore:            0.31,
			Status:               model.StatusResolved,
			CreatedAt:            now.Add(-72 * time.Hour),
			ExplanationGenerated: true,
			ModelVersion:         demoModelVersion,
			TokensUsed:           223,
		},
	}

	for _, c := range demo {
		if err := s.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// SeedFromFile loads cases from a JSON export produced by `riskline import`.
func (s *Store) SeedFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var cases []model.Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i := range cases {
		if err := s.Add(cases[i]); err != nil {
			return i, fmt.Errorf("seed file entry %d: %w", i, err)
		}
	}
	return len(cases), nil
}
