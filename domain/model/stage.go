package model

import "time"

// StageName names one stage of the sprinter pipeline
type StageName string

const (
	StageMainEffects StageName = "main_effects" // Stage 1: main-effect (and squared) fit
	StageScreen      StageName = "screen"       // Stage 2: interaction screening
	StageJoint       StageName = "joint"        // Stage 3: augmented path fit
)

// StageMetrics records what a stage processed and produced
type StageMetrics struct {
	ProcessedCount int     `json:"processed_count"` // features fitted or pairs scored
	SelectedCount  int     `json:"selected_count"`  // rows kept by the stage
	ResidualMean   float64 `json:"residual_mean"`
	ResidualStdDev float64 `json:"residual_std_dev"`
}

// StageResult is one entry in the fit trace
type StageResult struct {
	Name     StageName     `json:"name"`
	Duration time.Duration `json:"duration"`
	Metrics  StageMetrics  `json:"metrics"`
}
