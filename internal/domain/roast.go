package domain

import "time"

// RoastDirective is the composed instruction for one user, ready for the
// generation backend.
type RoastDirective struct {
	UserID                string
	AppName               string
	PredictedUsageMinutes float64
	ActualUsageMinutes    float64
	RoastCategory         string
	RoastIntensity        string
	DayOfWeek             string
	ComposedText          string
}

// RoastResult is one row of the persisted output.
type RoastResult struct {
	UserID         string  `json:"user_id"`
	AppName        string  `json:"app_name"`
	ActualUsage    float64 `json:"actual_usage"`
	PredictedUsage float64 `json:"predicted_usage"`
	RoastIntensity string  `json:"roast_intensity"`
	RoastCategory  string  `json:"roast_category"`
	DayOfWeek      string  `json:"day_of_week"`
	RoastPrompt    string  `json:"roast_prompt"`
	GeneratedText  string  `json:"generated_text"`
}

// Run is one recorded pipeline execution.
type Run struct {
	ID        string
	CreatedAt time.Time
	Input     string
	Rows      int
	ModelKind ModelKind
	Provider  string
	MAE       float64
	RMSE      float64
	R2        float64
	CVMean    *float64
	CVStd     *float64
	Valid     bool
}
