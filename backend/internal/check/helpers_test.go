package check

import (
	"time"

	"github.com/9dragon/workinghour/backend/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(serial, user, start, end string, wt model.WorkType, work, overtime float64) model.WorkHourRecord {
	r := model.WorkHourRecord{
		SerialNo:      serial,
		UserName:      user,
		DeptName:      "交付一部",
		StartDate:     day(start),
		EndDate:       day(end),
		WorkType:      wt,
		ProjectName:   string(wt) + "-项目",
		WorkHours:     work,
		OvertimeHours: overtime,
	}
	if wt == model.WorkTypeLeave {
		r.WorkHours = 0
		r.LeaveHours = work
	}
	return r
}

func weekdays() Calendar {
	return NewCalendar(DefaultWorkdays, nil)
}

func janRange() Range {
	return Range{Start: day("2026-01-01"), End: day("2026-01-31")}
}
