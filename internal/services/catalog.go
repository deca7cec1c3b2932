package services

import (
	"fmt"
	"math"
	"slices"

	"marketing-dashboard/internal/models"
)

var clients = []models.Client{
	{ID: "c1", Name: "TechNova Corp", Avatar: "TN", Industry: "SaaS", Budget: 85000},
	{ID: "c2", Name: "Bloom Retail", Avatar: "BR", Industry: "E-commerce", Budget: 42000},
	{ID: "c3", Name: "UrbanMove", Avatar: "UM", Industry: "Mobility", Budget: 67000},
}

var campaigns = []models.Campaign{
	{ID: "camp1", ClientID: "c1", Name: "Google Ads – Brand", Platform: "Google", Status: models.CampaignActive, Budget: 15000, Spent: 11240, Impressions: 842000, Clicks: 18400, Conversions: 920, Revenue: 82800},
	{ID: "camp2", ClientID: "c1", Name: "Meta Prospecting Q1", Platform: "Meta", Status: models.CampaignActive, Budget: 12000, Spent: 9800, Impressions: 1240000, Clicks: 22100, Conversions: 742, Revenue: 62280},
	{ID: "camp3", ClientID: "c1", Name: "YouTube Awareness", Platform: "YouTube", Status: models.CampaignActive, Budget: 8000, Spent: 6200, Impressions: 3100000, Clicks: 8900, Conversions: 310, Revenue: 24800},
	{ID: "camp4", ClientID: "c2", Name: "Shopping – Seasonal", Platform: "Google", Status: models.CampaignActive, Budget: 18000, Spent: 14200, Impressions: 560000, Clicks: 14800, Conversions: 1180, Revenue: 94400},
	{ID: "camp5", ClientID: "c2", Name: "Meta Retargeting", Platform: "Meta", Status: models.CampaignActive, Budget: 9000, Spent: 7100, Impressions: 320000, Clicks: 9600, Conversions: 580, Revenue: 43500},
	{ID: "camp6", ClientID: "c3", Name: "App Install – iOS", Platform: "Apple Search", Status: models.CampaignActive, Budget: 22000, Spent: 17800, Impressions: 980000, Clicks: 31200, Conversions: 2480, Revenue: 148800},
	{ID: "camp7", ClientID: "c3", Name: "App Install – Android", Platform: "Google UAC", Status: models.CampaignActive, Budget: 20000, Spent: 15600, Impressions: 2200000, Clicks: 44000, Conversions: 3100, Revenue: 186000},
	{ID: "camp8", ClientID: "c1", Name: "Display Remarketing", Platform: "Google", Status: models.CampaignPaused, Budget: 5000, Spent: 2100, Impressions: 1800000, Clicks: 3200, Conversions: 88, Revenue: 7040},
}

func Clients() []models.Client { return slices.Clone(clients) }

func Campaigns() []models.Campaign { return slices.Clone(campaigns) }

func ClientByID(id string) (models.Client, error) {
	for _, c := range clients {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Client{}, fmt.Errorf("client %q: %w", id, ErrUnknownClient)
}

// CampaignsForClient keeps catalog order.
func CampaignsForClient(clientID string) []models.Campaign {
	out := make([]models.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out
}

func SummarizeCampaign(c models.Campaign) models.CampaignSummary {
	s := models.CampaignSummary{Campaign: c}
	if c.Spent > 0 {
		s.ROAS = roundTo(c.Revenue/c.Spent, 2)
	}
	if c.Budget > 0 {
		s.BudgetPct = int(math.Floor(c.Spent/c.Budget*100 + 0.5))
	}
	return s
}

func SummarizeCampaigns(cs []models.Campaign) []models.CampaignSummary {
	out := make([]models.CampaignSummary, 0, len(cs))
	for _, c := range cs {
		out = append(out, SummarizeCampaign(c))
	}
	return out
}
