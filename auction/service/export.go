// auction/service/export.go
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/cricketops/cricket-services/shared/models"
)

// ExportResults renders a completed auction as an xlsx workbook with one sheet
// of sold lots, one of unsold lots and one team-spend summary sheet. Only a
// completed auction can be exported.
func (s *AuctionService) ExportResults(ctx context.Context, auctionID string) ([]byte, error) {
	a, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AuctionStatusCompleted {
		return nil, fmt.Errorf("auction %s is in status %s: %w", auctionID, a.Status, ErrNotCompleted)
	}

	workbook := excelize.NewFile()
	defer func() {
		if closeErr := workbook.Close(); closeErr != nil {
			log.Printf("WARN: Failed to close export workbook for auction %s: %v", auctionID, closeErr)
		}
	}()

	if err := writeSoldSheet(workbook, a); err != nil {
		return nil, err
	}
	if err := writeUnsoldSheet(workbook, a); err != nil {
		return nil, err
	}
	if err := writeTeamsSheet(workbook, a); err != nil {
		return nil, err
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export workbook for auction %s: %w", auctionID, err)
	}
	return buffer.Bytes(), nil
}

func writeSoldSheet(workbook *excelize.File, a *models.Auction) error {
	const sheet = "Sold"
	if err := workbook.SetSheetName(workbook.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sold sheet: %w", err)
	}

	header := []any{"Player", "Role", "Base Price", "Final Price", "Team", "Sold At"}
	if err := writeRow(workbook, sheet, 1, header); err != nil {
		return err
	}
	for i, sold := range a.SoldLots {
		row := []any{
			sold.Lot.Name,
			sold.Lot.Role,
			sold.Lot.BasePrice,
			sold.FinalPrice,
			sold.TeamName,
			sold.SoldAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(workbook, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeUnsoldSheet(workbook *excelize.File, a *models.Auction) error {
	const sheet = "Unsold"
	if _, err := workbook.NewSheet(sheet); err != nil {
		return fmt.Errorf("create unsold sheet: %w", err)
	}

	if err := writeRow(workbook, sheet, 1, []any{"Player", "Role", "Base Price"}); err != nil {
		return err
	}
	for i, unsold := range a.UnsoldLots {
		row := []any{unsold.Lot.Name, unsold.Lot.Role, unsold.Lot.BasePrice}
		if err := writeRow(workbook, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTeamsSheet(workbook *excelize.File, a *models.Auction) error {
	const sheet = "Teams"
	if _, err := workbook.NewSheet(sheet); err != nil {
		return fmt.Errorf("create teams sheet: %w", err)
	}

	header := []any{"Team", "Players Bought", "Total Spent", "Remaining Budget"}
	if err := writeRow(workbook, sheet, 1, header); err != nil {
		return err
	}
	for i, team := range a.Teams {
		row := []any{team.Name, team.PlayersCount, team.SpentBudget, team.RemainingBudget}
		if err := writeRow(workbook, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(workbook *excelize.File, sheet string, rowNumber int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("compute cell for row %d: %w", rowNumber, err)
	}
	if err := workbook.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d on sheet %s: %w", rowNumber, sheet, err)
	}
	return nil
}
