package report

import (
	"fmt"
	"time"

	"github.com/LeeSmet/node-counter/internal/client"
)

// Month identifies one calendar month of the report.
type Month struct {
	Year  int
	Month time.Month
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Label formats the month as it appears in the date column: "2022-1-1",
// no zero padding, day always 1.
func (m Month) Label() string {
	return fmt.Sprintf("%d-%d-1", m.Year, int(m.Month))
}

// Months generates the reported month sequence: strictly increasing from
// (startYear, January), capped at spanYears worth of months, and cut off at
// the first month whose start is not yet in the past. A month that has
// already begun is included; only `now < start` excludes. Because the
// sequence is strictly increasing, the first excluded month excludes all
// later ones as well, so generation stops there.
func Months(startYear, spanYears int, now time.Time) []Month {
	months := make([]Month, 0, spanYears*12)
	for i := 0; i < spanYears*12; i++ {
		m := Month{Year: startYear + i/12, Month: time.Month(i%12 + 1)}
		if now.Before(m.Start()) {
			break
		}
		months = append(months, m)
	}
	return months
}

// Summary holds the cumulative aggregates for one month.
type Summary struct {
	Nodes int
	Farms int
	Total client.Resources
}

// Aggregate reduces the node list over the cumulative window ending at
// cutoff: nodes created strictly before cutoff are counted, their farms
// deduplicated, and their capacities summed elementwise. It is a pure
// function over the snapshot; each month is recomputed independently.
func Aggregate(nodes []client.Node, cutoff time.Time) Summary {
	cut := cutoff.Unix()
	farms := make(map[uint64]struct{})

	var s Summary
	for _, n := range nodes {
		if n.Created >= cut {
			continue
		}
		s.Nodes++
		farms[n.FarmID] = struct{}{}
		s.Total.CRU += n.ResourcesTotal.CRU
		s.Total.MRU += n.ResourcesTotal.MRU
		s.Total.SRU += n.ResourcesTotal.SRU
		s.Total.HRU += n.ResourcesTotal.HRU
	}
	s.Farms = len(farms)
	return s
}

// Row is one emitted line of the report.
type Row struct {
	Month   Month
	Summary Summary
}

// Build produces one row per elapsed month, in chronological order.
func Build(nodes []client.Node, startYear, spanYears int, now time.Time) []Row {
	months := Months(startYear, spanYears, now)
	rows := make([]Row, 0, len(months))
	for _, m := range months {
		rows = append(rows, Row{Month: m, Summary: Aggregate(nodes, m.Start())})
	}
	return rows
}
