package app

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"internhub/internal/common"
	"internhub/internal/domain/applicant"
	"internhub/internal/domain/application"
	"internhub/internal/domain/company"
	"internhub/internal/domain/opportunity"
	"internhub/internal/metrics"
	"internhub/internal/repository/memory"
)

type fixture struct {
	applications    *ApplicationService
	opportunities   *OpportunityService
	applicantRepo   *memory.ApplicantRepository
	opportunityRepo *memory.OpportunityRepository
	repRepo         *memory.RepresentativeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	applicantRepo := memory.NewApplicantRepository()
	opportunityRepo := memory.NewOpportunityRepository()
	applicationRepo := memory.NewApplicationRepository()
	repRepo := memory.NewRepresentativeRepository()
	logger := zaptest.NewLogger(t)
	m := metrics.New(prometheus.NewRegistry())

	svc := NewApplicationService(applicationRepo, opportunityRepo, applicantRepo, m, logger)
	svc.now = func() time.Time { return date(t, "2025-06-01") }

	return &fixture{
		applications:    svc,
		opportunities:   NewOpportunityService(opportunityRepo, repRepo, logger),
		applicantRepo:   applicantRepo,
		opportunityRepo: opportunityRepo,
		repRepo:         repRepo,
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)
	return parsed
}

func (f *fixture) addStudent(t *testing.T, id, major string, year int) *applicant.Applicant {
	t.Helper()
	a, err := applicant.New(id, "Student "+id, major, year, id+"@u.example.edu")
	require.NoError(t, err)
	f.applicantRepo.Add(a)
	return a
}

// addOpenListing seeds an APPROVED, visible opportunity closing 2025-06-30.
func (f *fixture) addOpenListing(t *testing.T, id, title, major string, level opportunity.Level, slots int) *opportunity.Opportunity {
	t.Helper()
	opp, err := opportunity.New(id, title, "", level, major, "Acme", "rep@acme.com", slots, date(t, "2025-01-01"), date(t, "2025-06-30"))
	require.NoError(t, err)
	opp.Status = opportunity.StatusApproved
	opp.Visible = true
	f.opportunityRepo.Add(opp)
	return opp
}

func (f *fixture) addRep(t *testing.T, id string, approved bool) *company.Representative {
	t.Helper()
	rep, err := company.NewRepresentative(id, "Rep "+id, id, "Acme", "HR", "Recruiter")
	require.NoError(t, err)
	rep.Approved = approved
	f.repRepo.Add(rep)
	return rep
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelAdvanced, 2)

	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	assert.Equal(t, application.StatusPending, app.Status)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, date(t, "2025-06-01"), app.DateApplied)

	// One shared record, referenced from both sides.
	require.Len(t, student.Applications, 1)
	require.Len(t, opp.Applications, 1)
	assert.Same(t, student.Applications[0], opp.Applications[0])
}

func TestSubmitRejectsClosedOrHiddenListings(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)

	hidden := f.addOpenListing(t, "INT001", "Hidden", "Computer Science", opportunity.LevelBasic, 1)
	hidden.Visible = false
	_, err := f.applications.Submit(student.ID, hidden.ID)
	assert.True(t, common.Is(err, common.CodeIneligible))

	pending := f.addOpenListing(t, "INT002", "Pending", "Computer Science", opportunity.LevelBasic, 1)
	pending.Status = opportunity.StatusPendingApproval
	_, err = f.applications.Submit(student.ID, pending.ID)
	assert.True(t, common.Is(err, common.CodeIneligible))
	assert.Empty(t, student.Applications)
}

func TestSubmitRejectsMajorMismatch(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Business", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)

	_, err := f.applications.Submit(student.ID, opp.ID)
	assert.True(t, common.Is(err, common.CodeIneligible))
}

func TestSubmitMajorMatchIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "computer science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)

	_, err := f.applications.Submit(student.ID, opp.ID)
	assert.NoError(t, err)
}

func TestSubmitLevelGate(t *testing.T) {
	f := newFixture(t)
	junior := f.addStudent(t, "U001", "Computer Science", 2)
	senior := f.addStudent(t, "U002", "Computer Science", 3)
	advanced := f.addOpenListing(t, "INT001", "Advanced Intern", "Computer Science", opportunity.LevelAdvanced, 2)
	basic := f.addOpenListing(t, "INT002", "Basic Intern", "Computer Science", opportunity.LevelBasic, 2)

	_, err := f.applications.Submit(junior.ID, advanced.ID)
	assert.True(t, common.Is(err, common.CodeIneligible))

	_, err = f.applications.Submit(junior.ID, basic.ID)
	assert.NoError(t, err)

	_, err = f.applications.Submit(senior.ID, advanced.ID)
	assert.NoError(t, err)
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 2)

	first, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	_, err = f.applications.Submit(student.ID, opp.ID)
	assert.True(t, common.Is(err, common.CodeConflict))

	// A withdrawn application no longer blocks a new one.
	require.NoError(t, f.applications.RequestWithdrawal(first.ID))
	require.NoError(t, f.applications.ResolveWithdrawal(first.ID, true))
	_, err = f.applications.Submit(student.ID, opp.ID)
	assert.NoError(t, err)
}

func TestSubmitEnforcesActiveLimit(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	for i, id := range []string{"INT001", "INT002", "INT003"} {
		opp := f.addOpenListing(t, id, "Intern", "Computer Science", opportunity.LevelBasic, 1)
		_, err := f.applications.Submit(student.ID, opp.ID)
		require.NoError(t, err, "submission %d", i+1)
	}

	fourth := f.addOpenListing(t, "INT004", "Intern", "Computer Science", opportunity.LevelBasic, 1)
	_, err := f.applications.Submit(student.ID, fourth.ID)
	assert.True(t, common.Is(err, common.CodeIneligible))
	assert.Len(t, student.Applications, 3)
}

func TestSubmitRejectsPastClosingDate(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)

	f.applications.now = func() time.Time { return date(t, "2025-07-01") }
	_, err := f.applications.Submit(student.ID, opp.ID)
	assert.True(t, common.Is(err, common.CodeIneligible))
	assert.Empty(t, student.Applications)

	// The closing date itself is still applicable.
	f.applications.now = func() time.Time { return date(t, "2025-06-30") }
	_, err = f.applications.Submit(student.ID, opp.ID)
	assert.NoError(t, err)
}

func TestDecideSetsOutcomeAndRemarks(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	require.NoError(t, f.applications.Decide(app.ID, application.StatusSuccessful, "strong profile"))
	assert.Equal(t, application.StatusSuccessful, app.Status)
	assert.Equal(t, "strong profile", app.Remarks)
}

func TestDecideRejectsInvalidOutcome(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	err = f.applications.Decide(app.ID, application.StatusConfirmed, "")
	assert.True(t, common.Is(err, common.CodeValidation))
	assert.Equal(t, application.StatusPending, app.Status)
}

func TestDecideRejectsWithdrawalStates(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	require.NoError(t, f.applications.RequestWithdrawal(app.ID))
	err = f.applications.Decide(app.ID, application.StatusSuccessful, "")
	assert.True(t, common.Is(err, common.CodeInvalidTransition))

	require.NoError(t, f.applications.ResolveWithdrawal(app.ID, true))
	err = f.applications.Decide(app.ID, application.StatusUnsuccessful, "")
	assert.True(t, common.Is(err, common.CodeInvalidTransition))
}

func TestDecideOverConfirmedReleasesPlacement(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	first := f.addOpenListing(t, "INT001", "First", "Computer Science", opportunity.LevelBasic, 1)
	second := f.addOpenListing(t, "INT002", "Second", "Computer Science", opportunity.LevelBasic, 1)

	accepted, err := f.applications.Submit(student.ID, first.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(accepted.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Confirm(accepted.ID))
	assert.Equal(t, opportunity.StatusFilled, first.Status)

	// Staff overriding the confirmed offer frees the slot and the placement.
	require.NoError(t, f.applications.Decide(accepted.ID, application.StatusUnsuccessful, "placement revoked"))
	assert.Nil(t, student.AcceptedPlacement)
	assert.Equal(t, 1, first.SlotsAvailable)
	assert.Equal(t, opportunity.StatusApproved, first.Status)

	// A later confirmation on another application is no longer blocked.
	replacement, err := f.applications.Submit(student.ID, second.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(replacement.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Confirm(replacement.ID))
	assert.Same(t, replacement, student.AcceptedPlacement)
}

func TestRequestWithdrawalRejectsTerminalStates(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	require.NoError(t, f.applications.RequestWithdrawal(app.ID))
	err = f.applications.RequestWithdrawal(app.ID)
	assert.True(t, common.Is(err, common.CodeInvalidTransition))

	require.NoError(t, f.applications.ResolveWithdrawal(app.ID, true))
	err = f.applications.RequestWithdrawal(app.ID)
	assert.True(t, common.Is(err, common.CodeInvalidTransition))
}

func TestRequestWithdrawalRejectsUnsuccessful(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(app.ID, application.StatusUnsuccessful, ""))

	err = f.applications.RequestWithdrawal(app.ID)
	assert.True(t, common.Is(err, common.CodeInvalidTransition))
}

func TestWithdrawalRejectionRestoresPreviousStatus(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(app.ID, application.StatusSuccessful, "offer made"))

	require.NoError(t, f.applications.RequestWithdrawal(app.ID))
	assert.Equal(t, application.StatusWithdrawRequested, app.Status)
	require.NotNil(t, app.PreviousStatus)
	assert.Equal(t, application.StatusSuccessful, *app.PreviousStatus)

	require.NoError(t, f.applications.ResolveWithdrawal(app.ID, false))
	assert.Equal(t, application.StatusSuccessful, app.Status)
	assert.Contains(t, app.Remarks, "Withdrawal request rejected")
	// The original reviewer remark survives the appended note.
	assert.Contains(t, app.Remarks, "offer made")
}

func TestWithdrawalApprovalReleasesSlotAndPlacement(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(app.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Confirm(app.ID))

	assert.Equal(t, 0, opp.SlotsAvailable)
	assert.Equal(t, opportunity.StatusFilled, opp.Status)
	assert.Same(t, app, student.AcceptedPlacement)

	require.NoError(t, f.applications.RequestWithdrawal(app.ID))
	require.NoError(t, f.applications.ResolveWithdrawal(app.ID, true))

	assert.Equal(t, application.StatusWithdrawn, app.Status)
	assert.Nil(t, app.PreviousStatus)
	assert.Nil(t, student.AcceptedPlacement)
	assert.Equal(t, 1, opp.SlotsAvailable)
	assert.Equal(t, opportunity.StatusApproved, opp.Status)
}

func TestWithdrawalRejectionFallsBackToConfirmedForAcceptedPlacement(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(app.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Confirm(app.ID))
	require.NoError(t, f.applications.RequestWithdrawal(app.ID))

	// Simulate a pre-built record that never recorded its prior status.
	app.PreviousStatus = nil

	require.NoError(t, f.applications.ResolveWithdrawal(app.ID, false))
	assert.Equal(t, application.StatusConfirmed, app.Status)
}

func TestConfirmRequiresSuccessful(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 1)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	err = f.applications.Confirm(app.ID)
	assert.True(t, common.Is(err, common.CodeInvalidTransition))
	assert.Equal(t, application.StatusPending, app.Status)
	assert.Nil(t, student.AcceptedPlacement)
}

func TestConfirmCascadeWithdrawsActiveSiblings(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	other := f.addStudent(t, "U002", "Computer Science", 3)

	first := f.addOpenListing(t, "INT001", "First", "Computer Science", opportunity.LevelBasic, 1)
	second := f.addOpenListing(t, "INT002", "Second", "Computer Science", opportunity.LevelBasic, 1)
	third := f.addOpenListing(t, "INT003", "Third", "Computer Science", opportunity.LevelBasic, 1)

	target, err := f.applications.Submit(student.ID, first.ID)
	require.NoError(t, err)
	successfulSibling, err := f.applications.Submit(student.ID, second.ID)
	require.NoError(t, err)
	pendingSibling, err := f.applications.Submit(student.ID, third.ID)
	require.NoError(t, err)
	bystander, err := f.applications.Submit(other.ID, second.ID)
	require.NoError(t, err)

	require.NoError(t, f.applications.Decide(target.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Decide(successfulSibling.ID, application.StatusSuccessful, ""))

	require.NoError(t, f.applications.Confirm(target.ID))

	assert.Equal(t, application.StatusConfirmed, target.Status)
	assert.Equal(t, application.StatusWithdrawn, successfulSibling.Status)
	assert.Equal(t, application.StatusWithdrawn, pendingSibling.Status)
	// Cascade is per applicant, not per opportunity.
	assert.Equal(t, application.StatusPending, bystander.Status)
	assert.Same(t, target, student.AcceptedPlacement)
}

func TestConfirmCascadeCoversWithdrawRequestedSiblings(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	first := f.addOpenListing(t, "INT001", "First", "Computer Science", opportunity.LevelBasic, 1)
	second := f.addOpenListing(t, "INT002", "Second", "Computer Science", opportunity.LevelBasic, 1)

	target, err := f.applications.Submit(student.ID, first.ID)
	require.NoError(t, err)
	sibling, err := f.applications.Submit(student.ID, second.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(target.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.RequestWithdrawal(sibling.ID))

	require.NoError(t, f.applications.Confirm(target.ID))
	assert.Equal(t, application.StatusWithdrawn, sibling.Status)
	assert.Nil(t, sibling.PreviousStatus)
}

func TestConfirmRejectsSecondPlacement(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	first := f.addOpenListing(t, "INT001", "First", "Computer Science", opportunity.LevelBasic, 1)
	second := f.addOpenListing(t, "INT002", "Second", "Computer Science", opportunity.LevelBasic, 1)

	accepted, err := f.applications.Submit(student.ID, first.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(accepted.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Confirm(accepted.ID))

	// Submitting after confirmation is allowed, but a second confirmation
	// would break the single-placement invariant.
	late, err := f.applications.Submit(student.ID, second.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(late.ID, application.StatusSuccessful, ""))

	err = f.applications.Confirm(late.ID)
	assert.True(t, common.Is(err, common.CodeConflict))
	assert.Equal(t, application.StatusSuccessful, late.Status)
	assert.Same(t, accepted, student.AcceptedPlacement)
}

func TestTwoSlotScenario(t *testing.T) {
	f := newFixture(t)
	alice := f.addStudent(t, "U001", "Computer Science", 3)
	bob := f.addStudent(t, "U002", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 2)

	aliceApp, err := f.applications.Submit(alice.ID, opp.ID)
	require.NoError(t, err)
	bobApp, err := f.applications.Submit(bob.ID, opp.ID)
	require.NoError(t, err)
	require.NoError(t, f.applications.Decide(aliceApp.ID, application.StatusSuccessful, ""))
	require.NoError(t, f.applications.Decide(bobApp.ID, application.StatusSuccessful, ""))

	require.NoError(t, f.applications.Confirm(aliceApp.ID))
	assert.Equal(t, application.StatusConfirmed, aliceApp.Status)
	assert.Equal(t, 1, opp.SlotsAvailable)
	assert.Equal(t, opportunity.StatusApproved, opp.Status)

	// Alice's confirmed application is not withdrawn, so a fresh submission
	// against the same opportunity is a duplicate.
	_, err = f.applications.Submit(alice.ID, opp.ID)
	assert.True(t, common.Is(err, common.CodeConflict))
}

func TestListWithdrawalRequests(t *testing.T) {
	f := newFixture(t)
	student := f.addStudent(t, "U001", "Computer Science", 3)
	opp := f.addOpenListing(t, "INT001", "Backend Intern", "Computer Science", opportunity.LevelBasic, 2)
	app, err := f.applications.Submit(student.ID, opp.ID)
	require.NoError(t, err)

	assert.Empty(t, f.applications.ListWithdrawalRequests())
	require.NoError(t, f.applications.RequestWithdrawal(app.ID))

	pending := f.applications.ListWithdrawalRequests()
	require.Len(t, pending, 1)
	assert.Same(t, app, pending[0])
}
