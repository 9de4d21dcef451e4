// auction/service/export_test.go
package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestExportRequiresCompletedAuction(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())

	if _, err := svc.ExportResults(context.Background(), created.ID); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted for a scheduled auction, got %v", err)
	}
}

func TestExportRendersResultsWorkbook(t *testing.T) {
	svc, _, _, _ := newTestService(t, time.Hour, newFakePool(testPlayers()...))
	created := mustCreate(t, svc, testInput())
	mustStart(t, svc, created.ID)

	if _, err := svc.PlaceBid(context.Background(), created.ID, "t1", 250); err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}
	if _, err := svc.NextLot(context.Background(), created.ID); err != nil {
		t.Fatalf("NextLot failed: %v", err)
	}

	payload, err := svc.ExportResults(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ExportResults failed: %v", err)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("export is not a readable workbook: %v", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("expected 3 sheets, got %v", sheets)
	}

	soldRows, err := workbook.GetRows("Sold")
	if err != nil {
		t.Fatalf("failed to read Sold sheet: %v", err)
	}
	// Header plus one sold lot.
	if len(soldRows) != 2 {
		t.Fatalf("expected 2 rows on Sold sheet, got %d", len(soldRows))
	}

	unsoldRows, err := workbook.GetRows("Unsold")
	if err != nil {
		t.Fatalf("failed to read Unsold sheet: %v", err)
	}
	if len(unsoldRows) != 2 {
		t.Fatalf("expected 2 rows on Unsold sheet, got %d", len(unsoldRows))
	}

	teamRows, err := workbook.GetRows("Teams")
	if err != nil {
		t.Fatalf("failed to read Teams sheet: %v", err)
	}
	if len(teamRows) != 3 {
		t.Fatalf("expected header plus 2 teams, got %d rows", len(teamRows))
	}
}
