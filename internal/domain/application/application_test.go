package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsPending(t *testing.T) {
	applied := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	app := New("U001", "INT001", applied)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, applied, app.DateApplied)
	assert.Nil(t, app.PreviousStatus)
}

func TestActiveAndTerminal(t *testing.T) {
	cases := []struct {
		status   Status
		active   bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusSuccessful, true, false},
		{StatusUnsuccessful, false, true},
		{StatusConfirmed, false, false},
		{StatusWithdrawRequested, false, false},
		{StatusWithdrawn, false, true},
	}
	for _, tc := range cases {
		app := &Application{Status: tc.status}
		assert.Equal(t, tc.active, app.Active(), "Active for %s", tc.status)
		assert.Equal(t, tc.terminal, app.Terminal(), "Terminal for %s", tc.status)
	}
}

func TestAppendRemark(t *testing.T) {
	app := &Application{}
	app.AppendRemark("first note")
	assert.Equal(t, "first note", app.Remarks)

	app.AppendRemark("  second note  ")
	assert.Equal(t, "first note | second note", app.Remarks)

	app.AppendRemark("   ")
	assert.Equal(t, "first note | second note", app.Remarks)
}

func TestParseStatus(t *testing.T) {
	parsed, err := ParseStatus("  withdraw_requested ")
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawRequested, parsed)

	_, err = ParseStatus("APPROVED")
	assert.Error(t, err)
}
