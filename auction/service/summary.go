// auction/service/summary.go
package service

import "github.com/cricketops/cricket-services/shared/models"

// buildSummary aggregates the final results once the lot queue is exhausted.
// It reads only the sold/unsold records and the team snapshots, so the result
// is stable no matter when it is rendered afterwards.
func buildSummary(a *models.Auction) *models.AuctionSummary {
	summary := &models.AuctionSummary{
		TotalPlayers:  len(a.LotQueue),
		SoldPlayers:   len(a.SoldLots),
		UnsoldPlayers: len(a.UnsoldLots),
		TeamSpends:    make([]models.TeamSpend, 0, len(a.Teams)),
	}

	for i := range a.SoldLots {
		sold := &a.SoldLots[i]
		summary.TotalValue += sold.FinalPrice
		if sold.FinalPrice > summary.HighestPrice {
			summary.HighestPrice = sold.FinalPrice
			summary.MostExpensive = sold
		}
		if summary.LowestPrice == 0 || sold.FinalPrice < summary.LowestPrice {
			summary.LowestPrice = sold.FinalPrice
		}
	}
	if summary.SoldPlayers > 0 {
		summary.AveragePrice = float64(summary.TotalValue) / float64(summary.SoldPlayers)
	}

	for _, team := range a.Teams {
		spend := models.TeamSpend{
			TeamID:        team.TeamID,
			Name:          team.Name,
			TotalSpent:    team.SpentBudget,
			PlayersBought: team.PlayersCount,
		}
		if team.PlayersCount > 0 {
			spend.AverageSpend = float64(team.SpentBudget) / float64(team.PlayersCount)
		}
		summary.TeamSpends = append(summary.TeamSpends, spend)
	}
	return summary
}
