// Package loader seeds the in-memory registries from CSV files once at
// startup. Files are optional; a missing file leaves its registry empty.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"internhub/internal/domain/applicant"
	"internhub/internal/domain/company"
	"internhub/internal/domain/opportunity"
)

const (
	studentsFile        = "students.csv"
	representativesFile = "representatives.csv"
	opportunitiesFile   = "opportunities.csv"
)

type Loader struct {
	applicants      applicant.Repository
	representatives company.Repository
	opportunities   opportunity.Repository
	logger          *zap.Logger
}

func New(applicants applicant.Repository, representatives company.Repository, opportunities opportunity.Repository, logger *zap.Logger) *Loader {
	return &Loader{
		applicants:      applicants,
		representatives: representatives,
		opportunities:   opportunities,
		logger:          logger,
	}
}

// Load reads the seed files from dir. Representatives must load before
// opportunities so listings can resolve their owning company.
func (l *Loader) Load(dir string) error {
	if err := l.loadStudents(filepath.Join(dir, studentsFile)); err != nil {
		return err
	}
	if err := l.loadRepresentatives(filepath.Join(dir, representativesFile)); err != nil {
		return err
	}
	return l.loadOpportunities(filepath.Join(dir, opportunitiesFile))
}

// Columns: StudentID, Name, Major, Year, Email.
func (l *Loader) loadStudents(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) < 5 {
			return rowError(path, i, "expected 5 columns")
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return rowError(path, i, "invalid year of study")
		}
		a, err := applicant.New(row[0], row[1], row[2], year, row[4])
		if err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		l.applicants.Add(a)
	}
	l.logger.Info("students loaded", zap.Int("count", len(rows)))
	return nil
}

// Columns: RepID, Name, Email, CompanyName, Department, Position, Approved.
func (l *Loader) loadRepresentatives(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) < 4 {
			return rowError(path, i, "expected at least 4 columns")
		}
		department := "General"
		if len(row) > 4 {
			department = row[4]
		}
		position := "Representative"
		if len(row) > 5 {
			position = row[5]
		}
		rep, err := company.NewRepresentative(row[0], row[1], row[2], row[3], department, position)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if len(row) > 6 {
			rep.Approved = strings.EqualFold(strings.TrimSpace(row[6]), "true")
		}
		l.representatives.Add(rep)
	}
	l.logger.Info("representatives loaded", zap.Int("count", len(rows)))
	return nil
}

// Columns: ID, Title, Description, Level, PreferredMajor, RepID, Slots,
// OpeningDate, ClosingDate, Status, Visible. Dates are yyyy-MM-dd.
func (l *Loader) loadOpportunities(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) < 9 {
			return rowError(path, i, "expected at least 9 columns")
		}
		level, err := opportunity.ParseLevel(row[3])
		if err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		slots, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil {
			return rowError(path, i, "invalid slot count")
		}
		opening, err := parseDate(row[7])
		if err != nil {
			return rowError(path, i, "invalid opening date")
		}
		closing, err := parseDate(row[8])
		if err != nil {
			return rowError(path, i, "invalid closing date")
		}

		rep, err := l.representatives.GetByID(row[5])
		if err != nil {
			return rowError(path, i, "unknown representative "+strings.TrimSpace(row[5]))
		}

		opp, err := opportunity.New(row[0], row[1], row[2], level, row[4], rep.CompanyName, rep.ID, slots, opening, closing)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if len(row) > 9 && strings.TrimSpace(row[9]) != "" {
			status, err := opportunity.ParseStatus(row[9])
			if err != nil {
				return fmt.Errorf("%s row %d: %w", path, i+2, err)
			}
			opp.Status = status
		}
		if len(row) > 10 {
			opp.Visible = strings.EqualFold(strings.TrimSpace(row[10]), "true")
		}
		l.opportunities.Add(opp)
	}
	l.logger.Info("opportunities loaded", zap.Int("count", len(rows)))
	return nil
}

// readCSV returns the data rows of path, skipping the header line. A missing
// file yields no rows.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(value))
}

func rowError(path string, row int, msg string) error {
	return fmt.Errorf("%s row %d: %s", path, row+2, msg)
}
