package check

import (
	"sort"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// OverlapDetail 同一人员两张工时单的重叠
type OverlapDetail struct {
	UserName        string `json:"user_name"`
	DeptName        string `json:"dept_name"`
	SerialNoA       string `json:"serial_no_a"`
	StartA          string `json:"start_a"`
	EndA            string `json:"end_a"`
	SerialNoB       string `json:"serial_no_b"`
	StartB          string `json:"start_b"`
	EndB            string `json:"end_b"`
	OverlapStart    string `json:"overlap_start"`
	OverlapEnd      string `json:"overlap_end"`
	OverlapWorkdays int    `json:"overlap_workdays"`
}

// UserOverlap 人员维度的重叠汇总
type UserOverlap struct {
	UserName        string `json:"user_name"`
	Conflicts       int    `json:"conflicts"`
	OverlapWorkdays int    `json:"overlap_workdays"`
}

// OverlapSummary 重叠核对汇总
type OverlapSummary struct {
	StartDate            string        `json:"start_date"`
	EndDate              string        `json:"end_date"`
	TotalUsers           int           `json:"total_users"`
	AbnormalCount        int           `json:"abnormal_count"`
	TotalConflicts       int           `json:"total_conflicts"`
	TotalOverlapWorkdays int           `json:"total_overlap_workdays"`
	Users                []UserOverlap `json:"users"`
}

// Overlaps 检查同一人员任意两张工时单的时间段重叠
// 判定条件 A.start < B.end 且 A.end > B.start，首尾相接不算重叠
func Overlaps(records []model.WorkHourRecord, rng Range, cal Calendar) (OverlapSummary, []OverlapDetail) {
	byUser := make(map[string][]model.WorkHourRecord)
	dept := make(map[string]string)
	for _, r := range records {
		byUser[r.UserName] = append(byUser[r.UserName], r)
		if dept[r.UserName] == "" {
			dept[r.UserName] = r.DeptName
		}
	}

	users := make([]string, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Strings(users)

	details := []OverlapDetail{}
	perUser := []UserOverlap{}
	totalDays := 0

	for _, u := range users {
		tickets := distinctTickets(byUser[u])
		stat := UserOverlap{UserName: u}
		for i := 0; i < len(tickets); i++ {
			for j := i + 1; j < len(tickets); j++ {
				a, b := tickets[i], tickets[j]
				if !(a.Start.Before(b.End) && a.End.After(b.Start)) {
					continue
				}
				start := maxTime(a.Start, b.Start)
				end := minTime(a.End, b.End)
				n := cal.CountWorkdays(start, end)
				details = append(details, OverlapDetail{
					UserName:        u,
					DeptName:        dept[u],
					SerialNoA:       a.SerialNo,
					StartA:          formatDate(a.Start),
					EndA:            formatDate(a.End),
					SerialNoB:       b.SerialNo,
					StartB:          formatDate(b.Start),
					EndB:            formatDate(b.End),
					OverlapStart:    formatDate(start),
					OverlapEnd:      formatDate(end),
					OverlapWorkdays: n,
				})
				stat.Conflicts++
				stat.OverlapWorkdays += n
			}
		}
		if stat.Conflicts > 0 {
			perUser = append(perUser, stat)
			totalDays += stat.OverlapWorkdays
		}
	}

	summary := OverlapSummary{
		StartDate:            formatDate(rng.Start),
		EndDate:              formatDate(rng.End),
		TotalUsers:           len(users),
		AbnormalCount:        len(perUser),
		TotalConflicts:       len(details),
		TotalOverlapWorkdays: totalDays,
		Users:                perUser,
	}
	return summary, details
}
