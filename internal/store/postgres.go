package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valarama/costco-agent-assist/internal/metrics"
	"github.com/valarama/costco-agent-assist/pkg/models"
)

const (
	defaultLeadLimit = 50
	maxLeadLimit     = 200
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
}

// NewPostgresStore creates a new PostgresStore. m may be nil.
func NewPostgresStore(pool *pgxpool.Pool, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{pool: pool, metrics: m}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveQuery(operation, err)
	}
}

// --- Dashboard snapshot ---

func (s *PostgresStore) DashboardSnapshot(ctx context.Context, rng TimeRange) (snap *models.DashboardSnapshot, err error) {
	defer func() { s.observe("dashboard", err) }()

	cond := rng.condition()
	snap = &models.DashboardSnapshot{
		HourlyVolume:      []models.HourBucket{},
		TopTopics:         []models.TopicCount{},
		TopProducts:       []models.ProductCount{},
		IssueDistribution: []models.IssueCategoryStat{},
	}

	var avgDurationSecs float64
	m := &snap.Metrics
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(AVG(sentiment_score), 0),
		       COALESCE(AVG(duration_seconds), 0),
		       COUNT(*) FILTER (WHERE sentiment_label = 'positive'),
		       COUNT(*) FILTER (WHERE sentiment_label = 'neutral'),
		       COUNT(*) FILTER (WHERE sentiment_label = 'negative'),
		       COUNT(*) FILTER (WHERE resolution_status = 'resolved'),
		       COUNT(*) FILTER (WHERE resolution_status = 'unresolved'),
		       COUNT(*) FILTER (WHERE customer_satisfaction = 'satisfied'),
		       COUNT(*) FILTER (WHERE customer_satisfaction = 'dissatisfied'),
		       COUNT(*) FILTER (WHERE business_opportunity IS NOT NULL),
		       COALESCE(AVG(lead_score), 0),
		       COALESCE(SUM(opportunity_value_estimate), 0)
		FROM conversations_analytics
		WHERE %s`, cond),
	).Scan(&m.TotalConversations, &m.AvgSentiment, &avgDurationSecs,
		&m.PositiveCount, &m.NeutralCount, &m.NegativeCount,
		&m.ResolvedCount, &m.UnresolvedCount,
		&m.SatisfiedCount, &m.DissatisfiedCount,
		&m.TotalLeads, &m.AvgLeadScore, &m.TotalOpportunityValue)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	m.ResolutionRate = rate(m.ResolvedCount, m.TotalConversations)
	m.SatisfactionRate = rate(m.SatisfiedCount, m.TotalConversations)
	m.AvgDurationMinutes = int(math.Round(avgDurationSecs / 60))

	if err = s.hourlyVolume(ctx, cond, snap); err != nil {
		return nil, err
	}
	if err = s.topTopics(ctx, cond, snap); err != nil {
		return nil, err
	}
	if err = s.topProducts(ctx, cond, snap); err != nil {
		return nil, err
	}
	if err = s.issueDistribution(ctx, cond, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStore) hourlyVolume(ctx context.Context, cond string, snap *models.DashboardSnapshot) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT EXTRACT(HOUR FROM "timestamp")::int AS hour, COUNT(*)
		FROM conversations_analytics
		WHERE %s
		GROUP BY hour
		ORDER BY hour`, cond))
	if err != nil {
		return fmt.Errorf("hourly volume: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.HourBucket
		if err := rows.Scan(&b.Hour, &b.Count); err != nil {
			return fmt.Errorf("scan hourly volume: %w", err)
		}
		snap.HourlyVolume = append(snap.HourlyVolume, b)
	}
	return rows.Err()
}

func (s *PostgresStore) topTopics(ctx context.Context, cond string, snap *models.DashboardSnapshot) error {
	// Topics are multi-valued per conversation; every occurrence counts.
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT t.topic, COUNT(*)
		FROM conversations_analytics
		CROSS JOIN LATERAL unnest(topics) AS t(topic)
		WHERE %s
		GROUP BY t.topic
		ORDER BY COUNT(*) DESC, t.topic
		LIMIT 10`, cond))
	if err != nil {
		return fmt.Errorf("top topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc models.TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return fmt.Errorf("scan top topic: %w", err)
		}
		snap.TopTopics = append(snap.TopTopics, tc)
	}
	return rows.Err()
}

func (s *PostgresStore) topProducts(ctx context.Context, cond string, snap *models.DashboardSnapshot) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT p.product, COUNT(*)
		FROM conversations_analytics
		CROSS JOIN LATERAL unnest(product_mentions) AS p(product)
		WHERE %s
		GROUP BY p.product
		ORDER BY COUNT(*) DESC, p.product
		LIMIT 10`, cond))
	if err != nil {
		return fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pc models.ProductCount
		if err := rows.Scan(&pc.Product, &pc.Count); err != nil {
			return fmt.Errorf("scan top product: %w", err)
		}
		snap.TopProducts = append(snap.TopProducts, pc)
	}
	return rows.Err()
}

func (s *PostgresStore) issueDistribution(ctx context.Context, cond string, snap *models.DashboardSnapshot) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT COALESCE(issue_category, ''), COUNT(*), COALESCE(AVG(sentiment_score), 0)
		FROM conversations_analytics
		WHERE %s
		GROUP BY issue_category
		ORDER BY COUNT(*) DESC`, cond))
	if err != nil {
		return fmt.Errorf("issue distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ic models.IssueCategoryStat
		if err := rows.Scan(&ic.IssueCategory, &ic.Count, &ic.AvgSentiment); err != nil {
			return fmt.Errorf("scan issue distribution: %w", err)
		}
		snap.IssueDistribution = append(snap.IssueDistribution, ic)
	}
	return rows.Err()
}

// --- Trends ---

func (s *PostgresStore) Trends(ctx context.Context, period Period, days int) (report *models.TrendReport, err error) {
	defer func() { s.observe("trends", err) }()

	if days <= 0 {
		days = 30
	}
	unit := period.truncUnit()

	report = &models.TrendReport{
		TimeSeries:          []models.TrendPoint{},
		SentimentTrends:     []models.SentimentTrendPoint{},
		TopicTrends:         []models.TopicTrendPoint{},
		ChannelDistribution: []models.ChannelTrendPoint{},
	}

	if err = s.timeSeries(ctx, unit, period, days, report); err != nil {
		return nil, err
	}
	if err = s.sentimentTrends(ctx, unit, period, days, report); err != nil {
		return nil, err
	}
	if err = s.topicTrends(ctx, unit, period, days, report); err != nil {
		return nil, err
	}
	if err = s.channelDistribution(ctx, unit, period, days, report); err != nil {
		return nil, err
	}

	report.ChangeMetrics = changeMetrics(report.TimeSeries)
	return report, nil
}

func (s *PostgresStore) timeSeries(ctx context.Context, unit string, period Period, days int, report *models.TrendReport) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc('%s', "timestamp") AS bucket,
		       COUNT(*),
		       COALESCE(AVG(sentiment_score), 0),
		       COALESCE(AVG(duration_seconds), 0),
		       COUNT(*) FILTER (WHERE sentiment_label = 'positive'),
		       COUNT(*) FILTER (WHERE sentiment_label = 'negative'),
		       COUNT(*) FILTER (WHERE resolution_status = 'resolved'),
		       COUNT(*) FILTER (WHERE customer_satisfaction = 'satisfied'),
		       COUNT(*) FILTER (WHERE business_opportunity IS NOT NULL),
		       COALESCE(AVG(lead_score), 0),
		       COALESCE(SUM(opportunity_value_estimate), 0)
		FROM conversations_analytics
		WHERE "timestamp" >= NOW() - make_interval(days => $1)
		GROUP BY bucket
		ORDER BY bucket ASC`, unit), days)
	if err != nil {
		return fmt.Errorf("time series: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket time.Time
		var p models.TrendPoint
		if err := rows.Scan(&bucket, &p.ConversationCount, &p.AvgSentiment, &p.AvgDuration,
			&p.PositiveCount, &p.NegativeCount, &p.ResolvedCount, &p.SatisfiedCount,
			&p.LeadsCount, &p.AvgLeadScore, &p.OpportunityValue); err != nil {
			return fmt.Errorf("scan time series: %w", err)
		}
		p.Period = period.bucketLabel(bucket)
		if p.ConversationCount > 0 {
			p.ResolutionRate = float64(p.ResolvedCount) / float64(p.ConversationCount) * 100
			p.SatisfactionRate = float64(p.SatisfiedCount) / float64(p.ConversationCount) * 100
		}
		report.TimeSeries = append(report.TimeSeries, p)
	}
	return rows.Err()
}

func (s *PostgresStore) sentimentTrends(ctx context.Context, unit string, period Period, days int, report *models.TrendReport) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc('%s', "timestamp") AS bucket, COALESCE(sentiment_label, ''), COUNT(*)
		FROM conversations_analytics
		WHERE "timestamp" >= NOW() - make_interval(days => $1)
		GROUP BY bucket, sentiment_label
		ORDER BY bucket ASC`, unit), days)
	if err != nil {
		return fmt.Errorf("sentiment trends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket time.Time
		var p models.SentimentTrendPoint
		if err := rows.Scan(&bucket, &p.SentimentLabel, &p.Count); err != nil {
			return fmt.Errorf("scan sentiment trend: %w", err)
		}
		p.Period = period.bucketLabel(bucket)
		report.SentimentTrends = append(report.SentimentTrends, p)
	}
	return rows.Err()
}

func (s *PostgresStore) topicTrends(ctx context.Context, unit string, period Period, days int, report *models.TrendReport) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc('%s', "timestamp") AS bucket, primary_topic, COUNT(*)
		FROM conversations_analytics
		WHERE "timestamp" >= NOW() - make_interval(days => $1)
		  AND primary_topic IS NOT NULL
		GROUP BY bucket, primary_topic
		ORDER BY bucket ASC`, unit), days)
	if err != nil {
		return fmt.Errorf("topic trends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket time.Time
		var p models.TopicTrendPoint
		if err := rows.Scan(&bucket, &p.PrimaryTopic, &p.Count); err != nil {
			return fmt.Errorf("scan topic trend: %w", err)
		}
		p.Period = period.bucketLabel(bucket)
		report.TopicTrends = append(report.TopicTrends, p)
	}
	return rows.Err()
}

func (s *PostgresStore) channelDistribution(ctx context.Context, unit string, period Period, days int, report *models.TrendReport) error {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT date_trunc('%s', "timestamp") AS bucket, channel, COUNT(*)
		FROM conversations_analytics
		WHERE "timestamp" >= NOW() - make_interval(days => $1)
		GROUP BY bucket, channel
		ORDER BY bucket ASC`, unit), days)
	if err != nil {
		return fmt.Errorf("channel distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket time.Time
		var p models.ChannelTrendPoint
		if err := rows.Scan(&bucket, &p.Channel, &p.Count); err != nil {
			return fmt.Errorf("scan channel distribution: %w", err)
		}
		p.Period = period.bucketLabel(bucket)
		report.ChannelDistribution = append(report.ChannelDistribution, p)
	}
	return rows.Err()
}

// --- Leads ---

const leadColumns = `l.lead_id, l.session_id, l.identified_at, l.lead_type,
	COALESCE(l.lead_score, 0), COALESCE(l.opportunity_value_estimate, 0),
	l.products_interested, l.business_signals, l.conversation_summary,
	l.key_insights, l.recommended_action, l.priority, l.status,
	l.contacted_at, l.converted_at, l.conversion_value, l.assigned_to,
	c.sentiment_label, c.sentiment_score, c.channel, c."timestamp"`

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) (leads []*models.Lead, err error) {
	defer func() { s.observe("list_leads", err) }()

	// Build WHERE clause dynamically; the 30-day window always applies.
	conditions := []string{`l.identified_at >= NOW() - INTERVAL '30 days'`}
	args := []any{}
	argIdx := 1

	if filter.Status != "" && filter.Status != "all" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.LeadType != "" && filter.LeadType != "all" {
		conditions = append(conditions, fmt.Sprintf("l.lead_type = $%d", argIdx))
		args = append(args, filter.LeadType)
		argIdx++
	}

	limit := filter.ClampedLimit()

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads l
		LEFT JOIN conversations_analytics c ON l.session_id = c.session_id
		WHERE %s
		ORDER BY l.lead_score DESC, l.identified_at DESC
		LIMIT $%d`, leadColumns, strings.Join(conditions, " AND "), argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads = []*models.Lead{}
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.LeadID, &l.SessionID, &l.IdentifiedAt, &l.LeadType,
			&l.LeadScore, &l.OpportunityValueEstimate,
			&l.ProductsInterested, &l.BusinessSignals, &l.ConversationSummary,
			&l.KeyInsights, &l.RecommendedAction, &l.Priority, &l.Status,
			&l.ContactedAt, &l.ConvertedAt, &l.ConversionValue, &l.AssignedTo,
			&l.SentimentLabel, &l.SentimentScore, &l.Channel, &l.ConversationTimestamp); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}

func (s *PostgresStore) LeadStats(ctx context.Context) (stats *models.LeadStats, err error) {
	defer func() { s.observe("lead_stats", err) }()

	stats = &models.LeadStats{}
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'new'),
		       COUNT(*) FILTER (WHERE status = 'contacted'),
		       COUNT(*) FILTER (WHERE status = 'qualified'),
		       COUNT(*) FILTER (WHERE status = 'converted'),
		       COALESCE(AVG(lead_score), 0),
		       COALESCE(SUM(opportunity_value_estimate), 0),
		       COALESCE(SUM(conversion_value), 0),
		       COUNT(*) FILTER (WHERE lead_type = 'business_center'),
		       COUNT(*) FILTER (WHERE lead_type = 'premium_product'),
		       COUNT(*) FILTER (WHERE lead_type = 'bulk_purchase')
		FROM leads
		WHERE identified_at >= NOW() - INTERVAL '30 days'`,
	).Scan(&stats.TotalLeads, &stats.NewLeads, &stats.ContactedLeads,
		&stats.QualifiedLeads, &stats.ConvertedLeads, &stats.AvgLeadScore,
		&stats.TotalOpportunityValue, &stats.TotalConversionValue,
		&stats.BusinessCenterCount, &stats.PremiumProductCount, &stats.BulkPurchaseCount)
	if err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}

	stats.AvgLeadScore = round1(stats.AvgLeadScore)
	stats.ConversionRate = rate(stats.ConvertedLeads, stats.TotalLeads)
	return stats, nil
}

// UpdateLead applies a partial update to exactly the supplied fields and
// returns the names of the columns written.
func (s *PostgresStore) UpdateLead(ctx context.Context, update LeadUpdate) (updated []string, err error) {
	defer func() { s.observe("update_lead", err) }()

	sets := []string{"status = $2"}
	args := []any{update.LeadID, update.Status}
	updated = []string{"status"}
	argIdx := 3

	if update.ContactedAt != nil {
		sets = append(sets, fmt.Sprintf("contacted_at = $%d", argIdx))
		args = append(args, *update.ContactedAt)
		updated = append(updated, "contacted_at")
		argIdx++
	}
	if update.ConvertedAt != nil {
		sets = append(sets, fmt.Sprintf("converted_at = $%d", argIdx))
		args = append(args, *update.ConvertedAt)
		updated = append(updated, "converted_at")
		argIdx++
	}
	if update.ConversionValue != nil {
		sets = append(sets, fmt.Sprintf("conversion_value = $%d", argIdx))
		args = append(args, *update.ConversionValue)
		updated = append(updated, "conversion_value")
		argIdx++
	}
	if update.AssignedTo != nil {
		sets = append(sets, fmt.Sprintf("assigned_to = $%d", argIdx))
		args = append(args, *update.AssignedTo)
		updated = append(updated, "assigned_to")
		argIdx++
	}

	query := fmt.Sprintf("UPDATE leads SET %s WHERE lead_id = $1", strings.Join(sets, ", "))
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return updated, nil
}

var _ Store = (*PostgresStore)(nil)
