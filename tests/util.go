package testutil

import (
	"encoding/csv"
	"io"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/trezcool/kumbusha/core"
	logsvc "github.com/trezcool/kumbusha/services/logger"
)

// NewConfig returns a Config suitable for tests: sender credentials and the
// admin address are set so the alert channel is active, and templates resolve
// from the project root.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Kumbusha",
		WorkDir:          core.Getwd(),
		DefaultFromEmail: mail.Address{Name: "Kumbusha", Address: "noreply@test.test"},
		AdminEmail:       "admin@test.test",
		RosterPath:       "students_tasks.csv",
		TaskLabel:        "Final Course Submission",
		SMTP: core.SMTPConfig{
			Host:     "localhost",
			Port:     587,
			User:     "noreply@test.test",
			Password: "secret",
		},
	}
}

// NewLogger returns a Logger that discards all output.
func NewLogger() core.Logger {
	return logsvc.NewStdLogger(log.New(io.Discard, "", 0))
}

// WriteCSV writes rows to a temporary roster.csv and returns its path.
func WriteCSV(t *testing.T, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "roster.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}
	return path
}

// WriteXLSX writes rows to the first sheet of a temporary roster.xlsx and
// returns its path.
func WriteXLSX(t *testing.T, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("WriteXLSX() failed: %v", err)
		}
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			t.Fatalf("WriteXLSX() failed: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("WriteXLSX() failed: %v", err)
	}
	return path
}
