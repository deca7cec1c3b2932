package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing-dashboard/internal/models"
)

func alertIDs(alerts []models.AIAlert) []string {
	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestStaticAlerts_Catalog(t *testing.T) {
	alerts := StaticAlerts()
	require.Len(t, alerts, 5)
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, alertIDs(alerts))

	for _, a := range alerts {
		assert.GreaterOrEqual(t, a.ImpactProbability, 0)
		assert.LessOrEqual(t, a.ImpactProbability, 100)
		assert.NotEmpty(t, a.Message)
		assert.NotEmpty(t, a.Recommendation)
		assert.NotEmpty(t, a.CampaignID)
	}
}

func TestStaticAlerts_ReturnsCopy(t *testing.T) {
	alerts := StaticAlerts()
	alerts[0].Priority = models.PriorityLow

	assert.Equal(t, models.PriorityHigh, StaticAlerts()[0].Priority)
}

func TestFilterByPriority_High(t *testing.T) {
	high := FilterByPriority(StaticAlerts(), models.PriorityHigh)
	assert.Equal(t, []string{"a1", "a2"}, alertIDs(high))
	assert.Equal(t, 2, CountByPriority(StaticAlerts(), models.PriorityHigh))
}

func TestFilterByType(t *testing.T) {
	opps := FilterByType(StaticAlerts(), models.AlertOpportunity)
	assert.Equal(t, []string{"a3", "a5"}, alertIDs(opps))
	assert.Empty(t, FilterByType(StaticAlerts(), "unknown"))
}

func TestSortByPriority(t *testing.T) {
	in := StaticAlerts()
	sorted := SortByPriority(in)

	assert.Equal(t, []string{"a1", "a2", "a4", "a5", "a3"}, alertIDs(sorted))
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, alertIDs(in), "input is left untouched")
}

func TestGroupByType(t *testing.T) {
	groups := GroupByType(StaticAlerts())

	assert.Len(t, groups, 4)
	assert.Len(t, groups[models.AlertOpportunity], 2)
	assert.Len(t, groups[models.AlertCTRDrop], 1)
	assert.Len(t, groups[models.AlertHighCost], 1)
	assert.Len(t, groups[models.AlertUnderperformance], 1)
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, models.PriorityHigh.Rank(), models.PriorityMedium.Rank())
	assert.Less(t, models.PriorityMedium.Rank(), models.PriorityLow.Rank())
	assert.Less(t, models.PriorityLow.Rank(), models.Priority("urgent").Rank())
}
