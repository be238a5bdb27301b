package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/models"
)

func TestWriteCSVEscapesQuotesAndCommas(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"id", "reason"}, [][]string{
		{"1", `took a "long" break, unplanned`},
		{"2", "plain"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"id,reason\n1,\"took a \"\"long\"\" break, unplanned\"\n2,plain\n",
		buf.String())
}

func TestLeaveRowsCarryReasonVerbatim(t *testing.T) {
	header, rows := LeaveRows([]models.LeaveRequest{{
		ID: 3, StaffID: 9, Type: models.LeaveSick,
		StartDate: "2025-02-01", EndDate: "2025-02-03",
		Status: models.LeaveApproved, Reason: `flu, "certified"`,
	}})

	assert.Equal(t, []string{"id", "staff_id", "type", "start_date", "end_date", "status", "reason"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, `flu, "certified"`, rows[0][6])
}

func TestAttendanceRowsOpenShift(t *testing.T) {
	loginAt := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	_, rows := AttendanceRows([]models.LoginHistory{
		{ID: 1, StaffID: 9, LoginAt: loginAt, Device: "android"},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0][3], "open shift has no logout stamp")
}

func TestPerformanceRowsFormatting(t *testing.T) {
	_, rows := PerformanceRows([]models.RepPerformance{
		{RepID: 9, RepName: "A. Rep", Target: 1000, Total: 750, SalesCount: 12, Attainment: 0.75},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "750.00", rows[0][3])
	assert.Equal(t, "75.0%", rows[0][5])
}
