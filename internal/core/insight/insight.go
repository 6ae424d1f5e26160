// Package insight picks the dominant risk driver and the recommended action.
// Both are ordered first-match-wins chains; text is rendered per locale
package insight

import (
	"vortex/internal/core/churn"
	"vortex/internal/core/maintenance"
)

// Signals are the already-computed values the chains inspect
type Signals struct {
	Type              maintenance.Type
	Risk              int
	SentimentAdj      float64
	AnniversaryAdj    float64
	VolumeAdj         float64
	Sentiment         float64
	ContractAgeMonths int
	TicketsThisPeriod int
}

// SignalsFrom assembles Signals from a churn breakdown and its inputs
func SignalsFrom(f churn.Factors, b churn.Breakdown) Signals {
	return Signals{
		Type:              f.Type,
		Risk:              b.Risk,
		SentimentAdj:      b.SentimentAdj,
		AnniversaryAdj:    b.AnniversaryAdj,
		VolumeAdj:         b.VolumeAdj,
		Sentiment:         f.Sentiment,
		ContractAgeMonths: f.ContractAgeMonths,
		TicketsThisPeriod: f.TicketsThisPeriod,
	}
}

// Insight rule ids
const (
	InsightOpportunity         = "opportunity"
	InsightCriticalFrustration = "critical_frustration"
	InsightContractAnniversary = "contract_anniversary"
	InsightHighVolume          = "high_volume_corrective"
	InsightMinorIssue          = "minor_technical_issue"
)

// Recommendation tier ids
const (
	RecommendUrgentRetention = "urgent_retention"
	RecommendProactiveUpsell = "proactive_upsell"
	RecommendEscalation      = "management_escalation"
	RecommendMonitoring      = "routine_monitoring"
)

type rule struct {
	id   string
	when func(Signals) bool
}

// insightChain is evaluated top to bottom; the last rule always matches
var insightChain = []rule{
	{InsightOpportunity, func(s Signals) bool {
		return s.Type.IsEvolutionary()
	}},
	{InsightCriticalFrustration, func(s Signals) bool {
		return s.SentimentAdj > max(s.AnniversaryAdj, s.VolumeAdj) && s.Risk > 60
	}},
	{InsightContractAnniversary, func(s Signals) bool {
		return s.AnniversaryAdj > s.VolumeAdj && s.Risk > 50
	}},
	{InsightHighVolume, func(s Signals) bool {
		return s.VolumeAdj > 0 && s.Risk > 50
	}},
	{InsightMinorIssue, func(Signals) bool { return true }},
}

// recommendationChain is evaluated top to bottom; the last rule always matches
var recommendationChain = []rule{
	{RecommendUrgentRetention, func(s Signals) bool {
		return s.Risk >= 80
	}},
	{RecommendProactiveUpsell, func(s Signals) bool {
		return s.Risk >= 50 && s.Risk < 80 && s.Type.IsEvolutionary()
	}},
	{RecommendEscalation, func(s Signals) bool {
		return s.Risk >= 50 && s.Risk < 80 && !s.Type.IsEvolutionary()
	}},
	{RecommendMonitoring, func(Signals) bool { return true }},
}

func first(chain []rule, s Signals) string {
	for _, r := range chain {
		if r.when(s) {
			return r.id
		}
	}
	return chain[len(chain)-1].id
}

// InsightID returns the id of the first insight rule matching s
func InsightID(s Signals) string { return first(insightChain, s) }

// RecommendationID returns the id of the first recommendation tier matching s
func RecommendationID(s Signals) string { return first(recommendationChain, s) }
