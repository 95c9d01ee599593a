package models

import "time"

// Lead status values. Leads are created by an external identification
// pipeline; this service only moves them between statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
)

// Lead type values.
const (
	LeadTypeBusinessCenter = "business_center"
	LeadTypePremiumProduct = "premium_product"
	LeadTypeBulkPurchase   = "bulk_purchase"
)

// Lead is a sales lead joined with its originating conversation context.
// The conversation columns are nullable because the join is a LEFT JOIN.
type Lead struct {
	LeadID                   string     `json:"lead_id"`
	SessionID                string     `json:"session_id"`
	IdentifiedAt             time.Time  `json:"identified_at"`
	LeadType                 string     `json:"lead_type"`
	LeadScore                float64    `json:"lead_score"`
	OpportunityValueEstimate float64    `json:"opportunity_value_estimate"`
	ProductsInterested       []string   `json:"products_interested"`
	BusinessSignals          []string   `json:"business_signals"`
	ConversationSummary      *string    `json:"conversation_summary"`
	KeyInsights              []string   `json:"key_insights"`
	RecommendedAction        *string    `json:"recommended_action"`
	Priority                 *string    `json:"priority"`
	Status                   string     `json:"status"`
	ContactedAt              *time.Time `json:"contacted_at"`
	ConvertedAt              *time.Time `json:"converted_at"`
	ConversionValue          *float64   `json:"conversion_value"`
	AssignedTo               *string    `json:"assigned_to"`

	SentimentLabel        *string    `json:"sentiment_label"`
	SentimentScore        *float64   `json:"sentiment_score"`
	Channel               *string    `json:"channel"`
	ConversationTimestamp *time.Time `json:"conversation_timestamp"`
}

// LeadStats summarizes all leads identified in the trailing 30-day window,
// unaffected by the list filters. ConversionRate is converted/total*100
// rounded to one decimal, 0 when there are no leads.
type LeadStats struct {
	TotalLeads            int     `json:"total_leads"`
	NewLeads              int     `json:"new_leads"`
	ContactedLeads        int     `json:"contacted_leads"`
	QualifiedLeads        int     `json:"qualified_leads"`
	ConvertedLeads        int     `json:"converted_leads"`
	AvgLeadScore          float64 `json:"avg_lead_score"`
	TotalOpportunityValue float64 `json:"total_opportunity_value"`
	TotalConversionValue  float64 `json:"total_conversion_value"`
	ConversionRate        float64 `json:"conversion_rate"`
	BusinessCenterCount   int     `json:"business_center_count"`
	PremiumProductCount   int     `json:"premium_product_count"`
	BulkPurchaseCount     int     `json:"bulk_purchase_count"`
}

// ValidLeadStatus reports whether s is an accepted lead status.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted:
		return true
	}
	return false
}

// ValidLeadType reports whether t is an accepted lead type.
func ValidLeadType(t string) bool {
	switch t {
	case LeadTypeBusinessCenter, LeadTypePremiumProduct, LeadTypeBulkPurchase:
		return true
	}
	return false
}
