package services

import (
	"slices"

	"marketing-dashboard/internal/models"
)

var alertCatalog = []models.AIAlert{
	{
		ID:                "a1",
		Type:              models.AlertCTRDrop,
		Priority:          models.PriorityHigh,
		ImpactProbability: 87,
		Message:           `CTR of "Google Ads – Brand" dropped 34% over the last 3 days`,
		Recommendation:    "Refresh creatives and review keyword match types. Consider adding ad extensions.",
		CampaignID:        "camp1",
		CampaignName:      "Google Ads – Brand",
	},
	{
		ID:                "a2",
		Type:              models.AlertHighCost,
		Priority:          models.PriorityHigh,
		ImpactProbability: 79,
		Message:           `CPC of "Meta Prospecting Q1" is 42% above benchmark`,
		Recommendation:    "Lower the manual bid cap to $2.80 and widen audience targeting to reduce saturation.",
		CampaignID:        "camp2",
		CampaignName:      "Meta Prospecting Q1",
	},
	{
		ID:                "a3",
		Type:              models.AlertOpportunity,
		Priority:          models.PriorityLow,
		ImpactProbability: 91,
		Message:           "App Install – Android shows exceptional ROAS: 11.9x this week",
		Recommendation:    "Increase budget by 25% to ride the momentum. Competition is low in this segment.",
		CampaignID:        "camp7",
		CampaignName:      "App Install – Android",
	},
	{
		ID:                "a4",
		Type:              models.AlertUnderperformance,
		Priority:          models.PriorityMedium,
		ImpactProbability: 63,
		Message:           "Display Remarketing has recorded no conversions for 8 days",
		Recommendation:    "Review ad frequency and the remarketing segment. Consider shortening the retargeting window to 7 days.",
		CampaignID:        "camp8",
		CampaignName:      "Display Remarketing",
	},
	{
		ID:                "a5",
		Type:              models.AlertOpportunity,
		Priority:          models.PriorityMedium,
		ImpactProbability: 74,
		Message:           "Shopping – Seasonal conversions are 22% above target this week",
		Recommendation:    "Switch to a tROAS strategy with a 6.5x target to maximise margin during peak season.",
		CampaignID:        "camp4",
		CampaignName:      "Shopping – Seasonal",
	},
}

// StaticAlerts returns a copy of the fixed alert catalog in catalog order.
func StaticAlerts() []models.AIAlert { return slices.Clone(alertCatalog) }

func FilterByPriority(alerts []models.AIAlert, p models.Priority) []models.AIAlert {
	return filterAlerts(alerts, func(a models.AIAlert) bool { return a.Priority == p })
}

func FilterByType(alerts []models.AIAlert, t models.AlertType) []models.AIAlert {
	return filterAlerts(alerts, func(a models.AIAlert) bool { return a.Type == t })
}

func filterAlerts(alerts []models.AIAlert, keep func(models.AIAlert) bool) []models.AIAlert {
	out := make([]models.AIAlert, 0, len(alerts))
	for _, a := range alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// SortByPriority returns a copy ordered High, Medium, Low. Ties keep input order.
func SortByPriority(alerts []models.AIAlert) []models.AIAlert {
	out := slices.Clone(alerts)
	slices.SortStableFunc(out, func(a, b models.AIAlert) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return out
}

func GroupByType(alerts []models.AIAlert) map[models.AlertType][]models.AIAlert {
	groups := make(map[models.AlertType][]models.AIAlert)
	for _, a := range alerts {
		groups[a.Type] = append(groups[a.Type], a)
	}
	return groups
}

func CountByPriority(alerts []models.AIAlert, p models.Priority) int {
	n := 0
	for _, a := range alerts {
		if a.Priority == p {
			n++
		}
	}
	return n
}
