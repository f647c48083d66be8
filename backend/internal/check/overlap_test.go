package check

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9dragon/workinghour/backend/internal/model"
)

func TestOverlaps_Scenario(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("A", "张三", "2026-01-05", "2026-01-09", model.WorkTypeProjectDelivery, 40, 0),
		rec("B", "张三", "2026-01-08", "2026-01-12", model.WorkTypeProjectDelivery, 24, 0),
	}

	summary, details := Overlaps(records, janRange(), weekdays())

	require.Len(t, details, 1)
	d := details[0]
	assert.Equal(t, "A", d.SerialNoA)
	assert.Equal(t, "B", d.SerialNoB)
	assert.Equal(t, "2026-01-08", d.OverlapStart)
	assert.Equal(t, "2026-01-09", d.OverlapEnd)
	assert.Equal(t, 2, d.OverlapWorkdays)

	assert.Equal(t, 1, summary.AbnormalCount)
	assert.Equal(t, 2, summary.TotalOverlapWorkdays)
	require.Len(t, summary.Users, 1)
	assert.Equal(t, UserOverlap{UserName: "张三", Conflicts: 1, OverlapWorkdays: 2}, summary.Users[0])
}

func TestOverlaps_AdjacentIsNotConflict(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("A", "张三", "2026-01-05", "2026-01-09", model.WorkTypeProjectDelivery, 40, 0),
		rec("B", "张三", "2026-01-09", "2026-01-13", model.WorkTypeProjectDelivery, 24, 0),
		rec("C", "张三", "2026-01-14", "2026-01-16", model.WorkTypeProjectDelivery, 24, 0),
	}

	summary, details := Overlaps(records, janRange(), weekdays())

	assert.Empty(t, details)
	assert.Equal(t, 0, summary.AbnormalCount)
	assert.Equal(t, 1, summary.TotalUsers)
}

func TestOverlaps_EveryPair(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("A", "张三", "2026-01-05", "2026-01-16", model.WorkTypeProjectDelivery, 80, 0),
		rec("B", "张三", "2026-01-06", "2026-01-08", model.WorkTypeProductResearch, 24, 0),
		rec("C", "张三", "2026-01-12", "2026-01-14", model.WorkTypePresalesSupport, 24, 0),
		rec("D", "李四", "2026-01-06", "2026-01-08", model.WorkTypePresalesSupport, 24, 0),
	}

	summary, details := Overlaps(records, janRange(), weekdays())

	require.Len(t, details, 2)
	assert.Equal(t, "B", details[0].SerialNoB)
	assert.Equal(t, "C", details[1].SerialNoB)
	assert.Equal(t, 6, summary.TotalOverlapWorkdays)
	assert.Equal(t, 2, summary.TotalUsers)
}

func TestOverlaps_DetailRoundTrip(t *testing.T) {
	records := []model.WorkHourRecord{
		rec("A", "张三", "2026-01-05", "2026-01-09", model.WorkTypeProjectDelivery, 40, 0),
		rec("B", "张三", "2026-01-08", "2026-01-12", model.WorkTypeProjectDelivery, 24, 0),
	}
	_, details := Overlaps(records, janRange(), weekdays())

	b, err := json.Marshal(details)
	require.NoError(t, err)
	var back []OverlapDetail
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, details, back)
}
