package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"internhub/internal/domain/opportunity"
	"internhub/internal/repository/memory"
)

type harness struct {
	loader          *Loader
	applicants      *memory.ApplicantRepository
	representatives *memory.RepresentativeRepository
	opportunities   *memory.OpportunityRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	applicants := memory.NewApplicantRepository()
	representatives := memory.NewRepresentativeRepository()
	opportunities := memory.NewOpportunityRepository()
	return &harness{
		loader:          New(applicants, representatives, opportunities, zaptest.NewLogger(t)),
		applicants:      applicants,
		representatives: representatives,
		opportunities:   opportunities,
	}
}

func writeSeed(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSeedsAllRegistries(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeSeed(t, dir, "students.csv",
		"StudentID,Name,Major,Year,Email\n"+
			"U001,Alice Tan,Computer Science,3,alice@u.example.edu\n"+
			"U002,Bob Lim,Business,2,bob@u.example.edu\n")
	writeSeed(t, dir, "representatives.csv",
		"RepID,Name,Email,CompanyName,Department,Position,Approved\n"+
			"rep@acme.com,Carol Ng,rep@acme.com,Acme,HR,Recruiter,true\n")
	writeSeed(t, dir, "opportunities.csv",
		"ID,Title,Description,Level,PreferredMajor,RepID,Slots,OpeningDate,ClosingDate,Status,Visible\n"+
			"INT001,Backend Intern,Build APIs,BASIC,Computer Science,rep@acme.com,3,2025-01-01,2025-06-30,APPROVED,true\n")

	require.NoError(t, h.loader.Load(dir))

	assert.Len(t, h.applicants.List(), 2)
	assert.Len(t, h.representatives.List(), 1)

	opp, err := h.opportunities.GetByID("INT001")
	require.NoError(t, err)
	assert.Equal(t, opportunity.StatusApproved, opp.Status)
	assert.True(t, opp.Visible)
	assert.Equal(t, "Acme", opp.CompanyName)
	assert.Equal(t, 3, opp.TotalSlots)
}

func TestLoadMissingFilesLeaveRegistriesEmpty(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.loader.Load(t.TempDir()))
	assert.Empty(t, h.applicants.List())
	assert.Empty(t, h.representatives.List())
	assert.Empty(t, h.opportunities.List())
}

func TestLoadDefaultsRepresentativeFields(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeSeed(t, dir, "representatives.csv",
		"RepID,Name,Email,CompanyName\n"+
			"rep@acme.com,Carol Ng,rep@acme.com,Acme\n")

	require.NoError(t, h.loader.Load(dir))
	rep, err := h.representatives.GetByID("rep@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "General", rep.Department)
	assert.Equal(t, "Representative", rep.Position)
	assert.False(t, rep.Approved)
}

func TestLoadRejectsUnknownRepresentative(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeSeed(t, dir, "opportunities.csv",
		"ID,Title,Description,Level,PreferredMajor,RepID,Slots,OpeningDate,ClosingDate\n"+
			"INT001,Backend Intern,Build APIs,BASIC,Computer Science,ghost@acme.com,3,2025-01-01,2025-06-30\n")

	err := h.loader.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown representative")
}

func TestLoadRejectsBadRows(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeSeed(t, dir, "students.csv",
		"StudentID,Name,Major,Year,Email\n"+
			"U001,Alice Tan,Computer Science,not-a-year,alice@u.example.edu\n")

	err := h.loader.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadClampsSlotCounts(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	writeSeed(t, dir, "representatives.csv",
		"RepID,Name,Email,CompanyName\n"+
			"rep@acme.com,Carol Ng,rep@acme.com,Acme\n")
	writeSeed(t, dir, "opportunities.csv",
		"ID,Title,Description,Level,PreferredMajor,RepID,Slots,OpeningDate,ClosingDate\n"+
			"INT001,Backend Intern,Build APIs,BASIC,Computer Science,rep@acme.com,99,2025-01-01,2025-06-30\n")

	require.NoError(t, h.loader.Load(dir))
	opp, err := h.opportunities.GetByID("INT001")
	require.NoError(t, err)
	assert.Equal(t, opportunity.MaxSlots, opp.TotalSlots)
}
