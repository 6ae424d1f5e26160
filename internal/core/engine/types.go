package engine

import (
	"vortex/internal/core/churn"
	"vortex/internal/core/maintenance"
)

// TicketInput is the caller-supplied ticket. Missing metadata is zero
type TicketInput struct {
	Description       string  `json:"description" validate:"utf8text"`
	CustomerID        *string `json:"customer_id,omitempty" validate:"omitempty,utf8text,max=128"`
	ContractAgeMonths int     `json:"contract_age_months" validate:"gte=0"`
	TicketsThisPeriod int     `json:"tickets_this_period" validate:"gte=0"`
}

// TicketRecord is the engine's only output. When IsPhishing is true every
// downstream field is nil or empty
type TicketRecord struct {
	IsPhishing     bool   `json:"is_phishing"`
	PhishingReason string `json:"phishing_reason,omitempty"`
	PhishingRule   string `json:"phishing_rule,omitempty"`

	AnonymizedText       *string        `json:"anonymized_text"`
	AnonymizationApplied bool           `json:"anonymization_applied"`
	MaskedCounts         map[string]int `json:"masked_counts,omitempty"`

	SentimentScore  *float64         `json:"sentiment_score"`
	MaintenanceType maintenance.Type `json:"maintenance_type,omitempty"`
	ChurnRisk       *int             `json:"churn_risk"`
	Drivers         *churn.Breakdown `json:"drivers,omitempty"`

	KeyInsight       string `json:"key_insight,omitempty"`
	InsightID        string `json:"insight_id,omitempty"`
	Recommendation   string `json:"recommendation,omitempty"`
	RecommendationID string `json:"recommendation_id,omitempty"`
	Language         string `json:"language,omitempty"`
}
