package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/kumbusha/core"
)

// Canonical column roles required in the roster header.
const (
	colName    = "name"
	colEmail   = "email"
	colDueDate = "due_date"
)

var requiredCols = []string{colName, colEmail, colDueDate}

// headerRoles maps normalized header text onto the canonical roles.
// Localized and alternate spellings are accepted.
var headerRoles = map[string]string{
	"name":         colName,
	"student":      colName,
	"student name": colName,
	"student_name": colName,
	"nombre":       colName,

	"email":  colEmail,
	"e-mail": colEmail,
	"mail":   colEmail,
	"correo": colEmail,

	"due_date":    colDueDate,
	"due date":    colDueDate,
	"due":         colDueDate,
	"deadline":    colDueDate,
	"vencimiento": colDueDate,
}

type LoadErrorKind int

const (
	// KindBadFormat - the file extension identifies no supported tabular format.
	KindBadFormat LoadErrorKind = iota
	// KindMissingColumns - the header lacks one of the required roles.
	KindMissingColumns
	// KindDataAccess - the roster file does not exist.
	KindDataAccess
	// KindParsing - the file could not be read or structured as a whole.
	KindParsing
)

// LoadError is a whole-run roster failure: the run aborts with an empty
// roster and a single admin alert, categorized by Kind.
type LoadError struct {
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string { return e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// AlertSubject returns the category-specific admin alert subject.
func (e *LoadError) AlertSubject() string {
	switch e.Kind {
	case KindBadFormat:
		return "INVALID ROSTER FILE FORMAT"
	case KindMissingColumns:
		return "MISSING REQUIRED ROSTER COLUMNS"
	case KindDataAccess:
		return "ROSTER FILE NOT FOUND"
	}
	return "CRITICAL ROSTER READ ERROR"
}

// Loader parses a tabular roster file into validated Students.
type Loader struct {
	conf    *core.Config
	alerter core.Alerter
	logger  core.Logger
}

func NewLoader(conf *core.Config, alerter core.Alerter, logger core.Logger) *Loader {
	return &Loader{conf: conf, alerter: alerter, logger: logger}
}

// Load reads the roster at path. On any whole-run failure it logs, alerts the
// administrator exactly once and returns an empty roster together with a
// *LoadError; callers must treat an empty result as "nothing to process",
// never as "zero students legitimately exist".
func (l *Loader) Load(path string) ([]Student, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return l.fail(&LoadError{
			Kind: KindBadFormat,
			Err:  errors.Errorf("unsupported roster file %q: must be .csv or .xlsx", path),
		})
	}
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return l.fail(&LoadError{
				Kind: KindDataAccess,
				Err:  errors.Errorf("roster file %s not found: the run cannot continue", path),
			})
		}
		return l.fail(&LoadError{Kind: KindParsing, Err: errors.Wrapf(err, "reading roster file %s", path)})
	}
	if len(rows) == 0 {
		return l.fail(&LoadError{Kind: KindParsing, Err: errors.Errorf("roster file %s is empty", path)})
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return l.fail(&LoadError{Kind: KindMissingColumns, Err: err})
	}

	students := make([]Student, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := core.CleanString(cell(row, cols[colName]))
		email := core.CleanString(cell(row, cols[colEmail]))
		if name == "" && email == "" {
			continue
		}
		students = append(students, Student{
			ID:    len(students) + 1,
			Name:  name,
			Email: email,
			Tasks: []Task{NewTask(l.conf.TaskLabel, cell(row, cols[colDueDate]))},
		})
	}

	l.logger.Info(fmt.Sprintf("roster loaded: %d students from %s", len(students), path))
	return students, nil
}

func (l *Loader) fail(lerr *LoadError) ([]Student, error) {
	l.logger.Error("loading roster: "+lerr.Error(), lerr)
	l.alerter.Alert(lerr.AlertSubject(), lerr.Error())
	return nil, lerr
}

// mapColumns normalizes the header and resolves each cell to a canonical role.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredCols))
	found := make([]string, 0, len(header))
	for i, h := range header {
		h = core.CleanString(h, true /* lower */)
		found = append(found, h)
		if role, ok := headerRoles[h]; ok {
			if _, dup := cols[role]; !dup {
				cols[role] = i
			}
		}
	}
	for _, role := range requiredCols {
		if _, ok := cols[role]; !ok {
			return nil, errors.Errorf(
				"roster header must contain the columns %v; found: %v", requiredCols, found)
		}
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are handled per-cell
	return r.ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	// the roster lives on the first sheet
	return f.GetRows(f.GetSheetName(0))
}
