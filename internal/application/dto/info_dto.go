package dto

import "time"

// ThresholdResponse describes one decision tier in percent.
type ThresholdResponse struct {
	MinDefaultProbability *float64 `json:"min_default_probability,omitempty"`
	MaxDefaultProbability *float64 `json:"max_default_probability,omitempty"`
	Decision              string   `json:"decision"`
	Description           string   `json:"description"`
}

// ScoreRangeResponse describes the reported credit score range.
type ScoreRangeResponse struct {
	Description string  `json:"description"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Clamped     bool    `json:"clamped"`
}

// StatisticsResponse is the output of GET /statistics.
type StatisticsResponse struct {
	RiskThresholds map[string]ThresholdResponse `json:"risk_thresholds"`
	ScoreRange     ScoreRangeResponse           `json:"score_range"`
}

// ModelInfoResponse is the output of GET /model-info.
type ModelInfoResponse struct {
	LoadedAt        time.Time      `json:"loaded_at"`
	Metadata        map[string]any `json:"metadata"`
	ModelFormat     string         `json:"model_format"`
	ModelsDir       string         `json:"models_dir"`
	ScoreRange      string         `json:"score_range"`
	Features        []string       `json:"features"`
	SlimFeatures    []string       `json:"slim_features"`
	FeatureCount    int            `json:"feature_count"`
	ReviewThreshold float64        `json:"review_threshold"`
	RejectThreshold float64        `json:"reject_threshold"`
	ScoreClamp      bool           `json:"score_clamp"`
	LabelEncoded    bool           `json:"label_encoded"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserResponse describes the authenticated caller.
type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
