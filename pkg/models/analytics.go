// Package models contains shared data models used across the agent-assist codebase.
package models

// DashboardMetrics is the aggregate metric block of a dashboard snapshot.
// Rate fields are percentages in [0,100] and are 0 when TotalConversations is 0.
type DashboardMetrics struct {
	TotalConversations    int     `json:"total_conversations"`
	AvgSentiment          float64 `json:"avg_sentiment"`
	PositiveCount         int     `json:"positive_count"`
	NeutralCount          int     `json:"neutral_count"`
	NegativeCount         int     `json:"negative_count"`
	ResolvedCount         int     `json:"resolved_count"`
	UnresolvedCount       int     `json:"unresolved_count"`
	SatisfiedCount        int     `json:"satisfied_count"`
	DissatisfiedCount     int     `json:"dissatisfied_count"`
	TotalLeads            int     `json:"total_leads"`
	AvgLeadScore          float64 `json:"avg_lead_score"`
	TotalOpportunityValue float64 `json:"total_opportunity_value"`
	ResolutionRate        float64 `json:"resolution_rate"`
	SatisfactionRate      float64 `json:"satisfaction_rate"`
	AvgDurationMinutes    int     `json:"avg_duration_minutes"`
}

// HourBucket is one hour-of-day volume bucket.
type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// TopicCount counts occurrences of a single topic. Topics are multi-valued
// per conversation, so counts sum to more than the conversation total.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// ProductCount counts mentions of a single product.
type ProductCount struct {
	Product string `json:"product"`
	Count   int    `json:"count"`
}

// IssueCategoryStat is the per-issue-category slice of the snapshot.
type IssueCategoryStat struct {
	IssueCategory string  `json:"issue_category"`
	Count         int     `json:"count"`
	AvgSentiment  float64 `json:"avg_sentiment"`
}

// DashboardSnapshot is the full dashboard report for one time range.
// All slices are non-nil; an empty range yields zero metrics and empty lists.
type DashboardSnapshot struct {
	Metrics           DashboardMetrics    `json:"metrics"`
	HourlyVolume      []HourBucket        `json:"hourly_volume"`
	TopTopics         []TopicCount        `json:"top_topics"`
	TopProducts       []ProductCount      `json:"top_products"`
	IssueDistribution []IssueCategoryStat `json:"issue_distribution"`
}

// TrendPoint is one time bucket of the trend series, ordered chronologically.
type TrendPoint struct {
	Period            string  `json:"period"`
	ConversationCount int     `json:"conversation_count"`
	AvgSentiment      float64 `json:"avg_sentiment"`
	AvgDuration       float64 `json:"avg_duration"`
	PositiveCount     int     `json:"positive_count"`
	NegativeCount     int     `json:"negative_count"`
	ResolvedCount     int     `json:"resolved_count"`
	SatisfiedCount    int     `json:"satisfied_count"`
	LeadsCount        int     `json:"leads_count"`
	AvgLeadScore      float64 `json:"avg_lead_score"`
	OpportunityValue  float64 `json:"opportunity_value"`
	ResolutionRate    float64 `json:"resolution_rate"`
	SatisfactionRate  float64 `json:"satisfaction_rate"`
}

// SentimentTrendPoint counts one sentiment label within one time bucket.
type SentimentTrendPoint struct {
	Period         string `json:"period"`
	SentimentLabel string `json:"sentiment_label"`
	Count          int    `json:"count"`
}

// TopicTrendPoint counts one primary topic within one time bucket.
type TopicTrendPoint struct {
	Period       string `json:"period"`
	PrimaryTopic string `json:"primary_topic"`
	Count        int    `json:"count"`
}

// ChannelTrendPoint counts one channel within one time bucket.
type ChannelTrendPoint struct {
	Period  string `json:"period"`
	Channel string `json:"channel"`
	Count   int    `json:"count"`
}

// ChangeMetrics compares the two most recent trend buckets. Only present
// when the series has at least two buckets.
type ChangeMetrics struct {
	ConversationChange int     `json:"conversation_change"`
	SentimentChange    float64 `json:"sentiment_change"`
	ResolutionChange   float64 `json:"resolution_change"`
	LeadsChange        int     `json:"leads_change"`
}

// TrendReport is the full trend response for one period granularity.
type TrendReport struct {
	TimeSeries          []TrendPoint          `json:"time_series"`
	SentimentTrends     []SentimentTrendPoint `json:"sentiment_trends"`
	TopicTrends         []TopicTrendPoint     `json:"topic_trends"`
	ChannelDistribution []ChannelTrendPoint   `json:"channel_distribution"`
	ChangeMetrics       *ChangeMetrics        `json:"change_metrics,omitempty"`
}
