package dto

import (
	"time"

	"rxledger/internal/domain/reports"
)

// PeriodQuery is the date range of a report request. Dates are
// inclusive-from, exclusive-to; both optional (default last 30 days).
type PeriodQuery struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
}

// ToPeriod converts the query to a report period.
func (q *PeriodQuery) ToPeriod() reports.Period {
	var p reports.Period
	if q.StartDate != nil {
		p.FromDate = *q.StartDate
	}
	if q.EndDate != nil {
		p.ToDate = *q.EndDate
	}
	return p
}
