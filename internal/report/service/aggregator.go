package service

import (
	"sort"
	"time"

	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/bwmarrin/snowflake"
)

// SummarizeDaily rolls dense rows up to (platform, date) financial summaries.
// Net profit = commission - ad cost - rejected commission.
func SummarizeDaily(rows []reportdomain.DailyPlatformRow) []reportdomain.DailySummary {
	out := make([]reportdomain.DailySummary, 0, len(rows))
	for _, row := range rows {
		s := reportdomain.DailySummary{
			Date:         row.Date,
			PlatformID:   row.PlatformID,
			PlatformCode: row.PlatformCode,
			Commission:   row.Commission,
			AdCost:       row.Cost,
			Rejected:     row.Rejected,
			NetProfit:    row.Commission - row.Cost - row.Rejected,
			Clicks:       row.Clicks,
			Orders:       row.Orders,
		}
		s.EPC = CalculateEPC(float64Ptr(row.Commission), int64Ptr(row.Clicks))
		var cpc *float64
		if row.CPC > 0 {
			cpc = float64Ptr(row.CPC)
		}
		s.ROI = CalculateROI(s.EPC, cpc)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].PlatformCode < out[j].PlatformCode
	})
	return out
}

// SummarizeRange accumulates totals over the inclusive [begin, end] window.
// The average daily profit divides by calendar days: a day with no activity
// still counts toward the divisor.
func SummarizeRange(rows []reportdomain.DailyPlatformRow, begin, end time.Time) (*reportdomain.RangeSummary, error) {
	begin = reportdomain.DateOnly(begin)
	end = reportdomain.DateOnly(end)
	if end.Before(begin) {
		return nil, reportdomain.NewValidationError("date_range", "end before begin")
	}

	summary := &reportdomain.RangeSummary{
		Begin: begin,
		End:   end,
		Days:  int(end.Sub(begin).Hours()/24) + 1,
	}
	for _, row := range rows {
		day := reportdomain.DateOnly(row.Date)
		if day.Before(begin) || day.After(end) {
			continue
		}
		summary.Commission += row.Commission
		summary.AdCost += row.Cost
		summary.Rejected += row.Rejected
		summary.Clicks += row.Clicks
		summary.Orders += row.Orders
	}
	summary.NetProfit = summary.Commission - summary.AdCost - summary.Rejected
	summary.AvgDailyProfit = round(summary.NetProfit/float64(summary.Days), 2)

	summary.EPC = CalculateEPC(float64Ptr(summary.Commission), int64Ptr(summary.Clicks))
	var cpc *float64
	if summary.Clicks > 0 {
		cpc = float64Ptr(round(summary.AdCost/float64(summary.Clicks), 4))
	}
	summary.ROI = CalculateROI(summary.EPC, cpc)

	return summary, nil
}

// L7DWindow returns the trailing 7-calendar-day window ending the day before
// today: end = yesterday, begin = end - 6 days. UTC calendar arithmetic.
func L7DWindow(today time.Time) (begin, end time.Time) {
	end = reportdomain.DateOnly(today).AddDate(0, 0, -1)
	begin = end.AddDate(0, 0, -6)
	return begin, end
}

// RollupUsers recomputes range totals per user and per team from the
// underlying daily rows. Each level aggregates the raw rows again rather than
// summing sub-aggregates, so totals agree at whichever level is queried.
func RollupUsers(
	perUser map[snowflake.ID][]reportdomain.DailyPlatformRow,
	users []userInfo,
	teams []teamInfo,
	begin, end time.Time,
) (*reportdomain.TeamReport, error) {
	begin = reportdomain.DateOnly(begin)
	end = reportdomain.DateOnly(end)
	if end.Before(begin) {
		return nil, reportdomain.NewValidationError("date_range", "end before begin")
	}

	report := &reportdomain.TeamReport{Begin: begin, End: end}

	byTeam := make(map[snowflake.ID][]userInfo)
	for _, u := range users {
		byTeam[u.TeamID] = append(byTeam[u.TeamID], u)
	}

	for _, team := range teams {
		members := byTeam[team.ID]
		if len(members) == 0 {
			continue
		}

		ts := reportdomain.TeamSummary{TeamID: team.ID, TeamName: team.Name}
		teamRows := make([]reportdomain.DailyPlatformRow, 0)

		for _, member := range members {
			rows := perUser[member.ID]
			us, err := SummarizeRange(rows, begin, end)
			if err != nil {
				return nil, err
			}
			ts.Users = append(ts.Users, reportdomain.UserSummary{
				UserID:       member.ID,
				DisplayName:  member.DisplayName,
				RangeSummary: *us,
			})
			teamRows = append(teamRows, rows...)
		}

		teamTotal, err := SummarizeRange(teamRows, begin, end)
		if err != nil {
			return nil, err
		}
		ts.RangeSummary = *teamTotal
		report.Teams = append(report.Teams, ts)
	}

	return report, nil
}

type userInfo struct {
	ID          snowflake.ID
	TeamID      snowflake.ID
	DisplayName string
}

type teamInfo struct {
	ID   snowflake.ID
	Name string
}
