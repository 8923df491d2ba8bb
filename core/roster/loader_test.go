package roster

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/trezcool/kumbusha/core"
	"github.com/trezcool/kumbusha/core/alert"
	emailsvc "github.com/trezcool/kumbusha/services/email"
	testutil "github.com/trezcool/kumbusha/tests"
)

func newTestLoader(t *testing.T) (*Loader, *emailsvc.ConsoleServiceMock, *core.Config) {
	t.Helper()
	conf := testutil.NewConfig()
	mock := emailsvc.NewConsoleServiceMock(conf)
	logger := testutil.NewLogger()
	return NewLoader(conf, alert.NewAdminAlerter(conf, mock, logger), logger), mock, conf
}

func TestLoaderLoadCSV(t *testing.T) {
	loader, mock, conf := newTestLoader(t)

	path := testutil.WriteCSV(t,
		[]string{"name", "email", "due_date"},
		[]string{"Ana", "ana@test.test", "2021-03-15"},
		[]string{"Ben", "ben@test.test", "2021-03-20 00:00:00"},
		[]string{"", "", ""}, // blank rows are skipped
		[]string{"Coki", "coki@test.test", "not-a-date"},
	)

	students, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("Load() returned %d students, want 3", len(students))
	}
	for i, std := range students {
		if std.ID != i+1 {
			t.Errorf("students[%d].ID = %d, want %d", i, std.ID, i+1)
		}
		if len(std.Tasks) != 1 {
			t.Fatalf("students[%d] has %d tasks, want 1", i, len(std.Tasks))
		}
		if std.Tasks[0].Name != conf.TaskLabel {
			t.Errorf("students[%d] task name = %q, want %q", i, std.Tasks[0].Name, conf.TaskLabel)
		}
		if std.Tasks[0].Submitted {
			t.Errorf("students[%d] task loaded as submitted", i)
		}
	}

	if got := students[0]; got.Name != "Ana" || got.Email != "ana@test.test" || !got.Tasks[0].DueDate.Valid {
		t.Errorf("students[0] = %+v, want Ana with a valid due date", got)
	}
	// trailing time-of-day is discarded
	if got := students[1].Tasks[0]; got.RawDue != "2021-03-20" || !got.DueDate.Valid {
		t.Errorf("students[1] task = %+v, want raw due 2021-03-20", got)
	}
	// unparsable dates are kept; they surface as warnings at evaluation
	if got := students[2].Tasks[0]; got.DueDate.Valid || got.RawDue != "not-a-date" {
		t.Errorf("students[2] task = %+v, want invalid due date with raw value", got)
	}

	if alerts := mock.SentTo(conf.AdminEmail); len(alerts) != 0 {
		t.Errorf("Load() sent %d admin alerts, want 0", len(alerts))
	}
}

func TestLoaderHeaderSynonyms(t *testing.T) {
	loader, _, _ := newTestLoader(t)

	path := testutil.WriteCSV(t,
		[]string{"Nombre", " CORREO ", "Vencimiento"},
		[]string{"Ana", "ana@test.test", "2021-03-15"},
	)

	students, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("Load() returned %d students, want 1", len(students))
	}
	if students[0].Email != "ana@test.test" {
		t.Errorf("students[0].Email = %q", students[0].Email)
	}
}

func TestLoaderLoadXLSX(t *testing.T) {
	loader, _, _ := newTestLoader(t)

	path := testutil.WriteXLSX(t,
		[]string{"name", "email", "deadline"},
		[]string{"Ana", "ana@test.test", "2021-03-15"},
		[]string{"Ben", "ben@test.test", "2021-03-16"},
	)

	students, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("Load() returned %d students, want 2", len(students))
	}
	if students[1].ID != 2 || students[1].Name != "Ben" {
		t.Errorf("students[1] = %+v, want Ben with ID 2", students[1])
	}
}

func TestLoaderFailures(t *testing.T) {
	tests := []struct {
		name        string
		path        func(t *testing.T) string
		wantKind    LoadErrorKind
		wantSubject string
	}{
		{
			name:        "unsupported extension",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "roster.txt") },
			wantKind:    KindBadFormat,
			wantSubject: "INVALID ROSTER FILE FORMAT",
		},
		{
			name:        "missing csv file",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			wantKind:    KindDataAccess,
			wantSubject: "ROSTER FILE NOT FOUND",
		},
		{
			name:        "missing xlsx file",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.xlsx") },
			wantKind:    KindDataAccess,
			wantSubject: "ROSTER FILE NOT FOUND",
		},
		{
			name: "missing email column",
			path: func(t *testing.T) string {
				return testutil.WriteCSV(t,
					[]string{"name", "due_date"},
					[]string{"Ana", "2021-03-15"},
				)
			},
			wantKind:    KindMissingColumns,
			wantSubject: "MISSING REQUIRED ROSTER COLUMNS",
		},
		{
			name: "no header at all",
			path: func(t *testing.T) string {
				return testutil.WriteCSV(t, []string{"Ana", "ana@test.test", "2021-03-15"})
			},
			wantKind:    KindMissingColumns,
			wantSubject: "MISSING REQUIRED ROSTER COLUMNS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, mock, conf := newTestLoader(t)

			students, err := loader.Load(tt.path(t))
			if len(students) != 0 {
				t.Errorf("Load() returned %d students, want 0", len(students))
			}
			lerr, ok := err.(*LoadError)
			if !ok {
				t.Fatalf("Load() error = %v, want *LoadError", err)
			}
			if lerr.Kind != tt.wantKind {
				t.Errorf("LoadError.Kind = %v, want %v", lerr.Kind, tt.wantKind)
			}

			alerts := mock.SentTo(conf.AdminEmail)
			if len(alerts) != 1 {
				t.Fatalf("Load() sent %d admin alerts, want exactly 1", len(alerts))
			}
			if !strings.Contains(alerts[0].Subject, tt.wantSubject) {
				t.Errorf("alert subject = %q, want it to contain %q", alerts[0].Subject, tt.wantSubject)
			}
		})
	}
}

func TestLoaderMissingColumnsAlertNamesColumns(t *testing.T) {
	loader, mock, conf := newTestLoader(t)

	path := testutil.WriteCSV(t,
		[]string{"name", "due_date"},
		[]string{"Ana", "2021-03-15"},
	)
	if _, err := loader.Load(path); err == nil {
		t.Fatal("Load() error = nil, want missing-columns error")
	}

	alerts := mock.SentTo(conf.AdminEmail)
	if len(alerts) != 1 {
		t.Fatalf("got %d admin alerts, want 1", len(alerts))
	}
	body := alerts[0].TextContent
	for _, want := range []string{"name", "email", "due_date"} {
		if !strings.Contains(body, want) {
			t.Errorf("alert body %q does not name required column %q", body, want)
		}
	}
}
