package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, AttendanceFile, `event_id,employee_id,badge_id,phone_id,event_type,event_timestamp,facility,device_id,raw_data
1,,B5,,check_in,2024-01-15 09:00:00,HQ,D1,
2,5,B5,,CHECK_OUT,2024-01-15 17:00:00,HQ,D1,"{""src"":""kiosk""}"
3,,,P7,CHECK_IN,2024-01-15 22:00:00,HQ,D2,
4,,,,CHECK_IN,2024-01-15 22:00:00,HQ,D2,
x,,B9,,CHECK_IN,2024-01-15 22:00:00,HQ,D2,
`)
	writeInput(t, dir, EmployeesFile, `employee_id,badge_ids,phone_id,facility,employment_type
5,"B5,B5_ALT",,HQ,FULL_TIME
7,,P7,HQ,PART_TIME
,B9,,HQ,FULL_TIME
`)
	writeInput(t, dir, ShiftsFile, `shift_id,employee_id,start_time,end_time,days_of_week,facility
1,5,09:00,17:00,"0,1,2,3,4",HQ
2,7,22:00,06:00,"0,1,2,3,4,5,6",HQ
3,,09:00,17:00,0,HQ
`)
	writeInput(t, dir, SwapsFile, `swap_id,employee_id_1,employee_id_2,shift_id_1,shift_id_2,swap_date,status
1,5,7,1,2,2024-01-16,APPROVED
2,5,5,1,1,2024-01-17,APPROVED
3,5,7,1,2,16/01/2024,APPROVED
`)

	in, stats, err := NewLoader(zap.NewNop()).LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, in.Events, 3)
	assert.Equal(t, "CHECK_IN", in.Events[0].EventType)
	assert.False(t, in.Events[0].Resolved())
	assert.Equal(t, uint(5), in.Events[1].Employee())
	require.NotNil(t, in.Events[1].RawData)
	assert.Equal(t, `{"src":"kiosk"}`, *in.Events[1].RawData)
	require.NotNil(t, in.Events[2].PhoneID)
	assert.Equal(t, "P7", *in.Events[2].PhoneID)

	require.Len(t, in.Employees, 2)
	assert.Equal(t, []string{"B5", "B5_ALT"}, in.Employees[0].Badges())
	require.Len(t, in.Shifts, 2)
	assert.Equal(t, "0,1,2,3,4", in.Shifts[0].DaysOfWeek)
	require.Len(t, in.Swaps, 1)
	assert.Equal(t, uint(2), in.Swaps[0].ShiftID2)

	assert.Equal(t, 2, stats.Skipped[AttendanceFile])
	assert.Equal(t, 1, stats.Skipped[EmployeesFile])
	assert.Equal(t, 1, stats.Skipped[ShiftsFile])
	assert.Equal(t, 2, stats.Skipped[SwapsFile])
}

func TestLoadDirOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, AttendanceFile, "event_id,badge_id,event_type,event_timestamp\n1,B1,CHECK_IN,2024-01-15 09:00:00\n")

	in, _, err := NewLoader(nil).LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, in.Events, 1)
	assert.Empty(t, in.Employees)
	assert.Empty(t, in.Shifts)
	assert.Empty(t, in.Swaps)
}

func TestLoadDirMissingAttendance(t *testing.T) {
	_, _, err := NewLoader(nil).LoadDir(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestLoadDirEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, AttendanceFile, "")
	_, _, err := NewLoader(nil).LoadDir(dir)
	assert.ErrorContains(t, err, "empty file")
}

func TestLoadDirHeaderWithBOM(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, AttendanceFile, "\ufeffevent_id,badge_id,event_type,event_timestamp\n7,B1,CHECK_OUT,2024-01-15 09:00:00\n")
	in, _, err := NewLoader(nil).LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, in.Events, 1)
	assert.Equal(t, uint(7), in.Events[0].EventID)
}
