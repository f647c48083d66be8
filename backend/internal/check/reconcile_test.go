package check

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9dragon/workinghour/backend/internal/model"
)

func TestReconcile_Excess(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("1", "张三", "2026-01-05", "2026-01-06", model.WorkTypeProjectDelivery, 12, 3),
		rec("1", "张三", "2026-01-05", "2026-01-06", model.WorkTypeDeptInternal, 8, 0),
	}

	summary, details := Reconcile(records, janRange(), weekdays())

	require.Len(t, details, 1)
	d := details[0]
	assert.Equal(t, StatusExcess, d.Status)
	assert.Equal(t, 2, d.Workdays)
	assert.Equal(t, 16.0, d.ExpectedHours)
	assert.Equal(t, 20.0, d.ActualHours)
	assert.Equal(t, 4.0, d.Difference)
	assert.Equal(t, []TypeHours{
		{WorkType: "project_delivery", Hours: 12},
		{WorkType: "dept_internal", Hours: 8},
	}, d.ByType)
	assert.Equal(t, 1, summary.ExcessTickets)
}

func TestReconcile_NormalWithLeaveAndTolerance(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("1", "张三", "2026-01-05", "2026-01-09", model.WorkTypeProjectDelivery, 31.995, 10),
		rec("1", "张三", "2026-01-05", "2026-01-09", model.WorkTypeLeave, 8, 0),
		rec("2", "张三", "2026-01-12", "2026-01-16", model.WorkTypeProjectDelivery, 30, 0),
	}

	summary, details := Reconcile(records, janRange(), weekdays())

	require.Len(t, details, 1)
	assert.Equal(t, "2", details[0].SerialNo)
	assert.Equal(t, StatusShort, details[0].Status)
	assert.Equal(t, -10.0, details[0].Difference)
	assert.Equal(t, 2, summary.TotalTickets)
	assert.Equal(t, 1, summary.NormalTickets)
	assert.Equal(t, 1, summary.ShortTickets)

	require.Len(t, summary.Categories, 5)
	assert.Equal(t, "project_delivery", summary.Categories[0].WorkType)
	assert.Equal(t, 62.0, summary.Categories[0].TotalHours)
	assert.Equal(t, 31.0, summary.Categories[0].AverageHours)
	assert.Equal(t, "leave", summary.Categories[4].WorkType)
	assert.Equal(t, 8.0, summary.Categories[4].TotalHours)
	assert.Equal(t, 4.0, summary.Categories[4].AverageHours)
}

func TestReconcile_HolidaysOnlyWhenSupplied(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("1", "张三", "2026-01-05", "2026-01-09", model.WorkTypeProjectDelivery, 32, 0),
	}

	_, details := Reconcile(records, janRange(), weekdays())
	require.Len(t, details, 1)
	assert.Equal(t, StatusShort, details[0].Status)

	withHoliday := NewCalendar(DefaultWorkdays, []time.Time{day("2026-01-09")})
	_, details = Reconcile(records, janRange(), withHoliday)
	assert.Empty(t, details)
}

func TestReconcile_DetailRoundTrip(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("1", "张三", "2026-01-05", "2026-01-06", model.WorkTypeProjectDelivery, 20, 0),
	}
	summary, details := Reconcile(records, janRange(), weekdays())

	b, err := json.Marshal(details)
	require.NoError(t, err)
	var back []ReconcileDetail
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, details, back)

	sb, err := json.Marshal(summary)
	require.NoError(t, err)
	var sback ReconcileSummary
	require.NoError(t, json.Unmarshal(sb, &sback))
	assert.Equal(t, summary, sback)
}
