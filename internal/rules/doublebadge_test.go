package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-backend/internal/model"
)

func use(badge string, emp uint, ts time.Time) model.AttendanceEvent {
	e := model.AttendanceEvent{BadgeID: badge, EventType: model.EventCheckIn, Timestamp: ts}
	return e.WithEmployee(emp)
}

func TestDetectDoubleBadge(t *testing.T) {
	out := DetectDoubleBadge(DefaultConfig(), []model.AttendanceEvent{
		use("B1", 7, at(15, 10, 3)),
		use("B1", 5, at(15, 10, 0)),
	})
	require.Len(t, out, 1)
	ex := out[0]
	assert.Equal(t, model.CodeDoubleBadgeUse, ex.Code)
	assert.Equal(t, "B1", ex.BadgeID)
	assert.Equal(t, uint(5), ex.FirstEmployeeID)
	assert.Equal(t, uint(7), ex.SecondEmployeeID)
	assert.Contains(t, ex.Explanation, "employee 5 and 7")
}

func TestDetectDoubleBadgeWindowIsInclusive(t *testing.T) {
	out := DetectDoubleBadge(DefaultConfig(), []model.AttendanceEvent{
		use("B1", 5, at(15, 10, 0)),
		use("B1", 7, at(15, 10, 5)),
		use("B2", 5, at(15, 10, 0)),
		use("B2", 7, at(15, 10, 6)),
	})
	require.Len(t, out, 1)
	assert.Equal(t, "B1", out[0].BadgeID)
}

func TestDetectDoubleBadgeIgnoresSameEmployeeAndUnresolved(t *testing.T) {
	out := DetectDoubleBadge(DefaultConfig(), []model.AttendanceEvent{
		use("B1", 5, at(15, 10, 0)),
		use("B1", 5, at(15, 10, 1)),
		{BadgeID: "B1", Timestamp: at(15, 10, 2)},
		use("B1", 7, time.Time{}),
		use("", 9, at(15, 10, 2)),
	})
	assert.Empty(t, out)
}

func TestDetectDoubleBadgeOrdersOutput(t *testing.T) {
	out := DetectDoubleBadge(DefaultConfig(), []model.AttendanceEvent{
		use("B2", 1, at(15, 8, 0)),
		use("B2", 2, at(15, 8, 1)),
		use("B1", 5, at(15, 7, 0)),
		use("B1", 7, at(15, 7, 2)),
		use("B1", 5, at(15, 7, 3)),
	})
	require.Len(t, out, 3)
	assert.Equal(t, at(15, 7, 2), out[0].SecondAt)
	assert.Equal(t, at(15, 7, 3), out[1].SecondAt)
	assert.Equal(t, uint(7), out[1].FirstEmployeeID)
	assert.Equal(t, "B2", out[2].BadgeID)
}
