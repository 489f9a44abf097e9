package query

import (
	"math"
	"sort"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// OpenStatuses and ResolvedStatuses partition the seven states into the two
// reporting buckets. Disjoint and exhaustive.
var (
	OpenStatuses = []domain.TicketStatus{
		domain.TicketStatusNew,
		domain.TicketStatusAssigned,
		domain.TicketStatusInProgress,
		domain.TicketStatusOnHold,
		domain.TicketStatusReopened,
	}
	ResolvedStatuses = []domain.TicketStatus{
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	}
)

// CountByStatus counts tickets per status; only statuses present appear.
func CountByStatus(tickets []domain.Ticket) map[domain.TicketStatus]int {
	counts := make(map[domain.TicketStatus]int)
	for _, t := range tickets {
		counts[t.Status]++
	}
	return counts
}

// CountOpenResolved splits the set into open and resolved bucket counts.
func CountOpenResolved(tickets []domain.Ticket) (open, resolved int) {
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusResolved, domain.TicketStatusClosed:
			resolved++
		default:
			open++
		}
	}
	return open, resolved
}

// DaysBetween is the absolute difference between two timestamps in days,
// rounded half-up to the nearest whole day.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(math.Abs(b.Sub(a).Hours() / 24)))
}

// AverageResolutionDays is the mean days-to-resolve over tickets with a
// resolvedAt stamp. ok is false when no ticket qualifies; callers must not
// display zero in that case.
func AverageResolutionDays(tickets []domain.Ticket) (avg float64, ok bool) {
	total := 0
	count := 0
	for _, t := range tickets {
		if t.ResolvedAt == nil {
			continue
		}
		total += DaysBetween(t.CreatedAt, *t.ResolvedAt)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(total) / float64(count), true
}

// CategoryCount pairs a category with its ticket count.
type CategoryCount struct {
	Category domain.TicketCategory `json:"category"`
	Count    int                   `json:"count"`
}

// CountByCategory always returns both buckets, Hardware then Software.
func CountByCategory(tickets []domain.Ticket) []CategoryCount {
	hw, sw := 0, 0
	for _, t := range tickets {
		switch t.Category {
		case domain.CategoryHardware:
			hw++
		case domain.CategorySoftware:
			sw++
		}
	}
	return []CategoryCount{
		{Category: domain.CategoryHardware, Count: hw},
		{Category: domain.CategorySoftware, Count: sw},
	}
}

// LocationCount is a chart row for a location bucket. Name is truncated for
// axis labels; FullName carries the untruncated value for tooltips.
type LocationCount struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Count    int    `json:"count"`
}

const (
	topLocationsLimit    = 8
	locationLabelMaxRune = 12
)

// TopLocations returns up to eight locations by descending ticket count.
// Ties keep first-appearance order.
func TopLocations(tickets []domain.Ticket) []LocationCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range tickets {
		if t.Location == "" {
			continue
		}
		if _, seen := counts[t.Location]; !seen {
			order = append(order, t.Location)
		}
		counts[t.Location]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topLocationsLimit {
		order = order[:topLocationsLimit]
	}

	out := make([]LocationCount, 0, len(order))
	for _, name := range order {
		out = append(out, LocationCount{
			Name:     truncateLabel(name),
			FullName: name,
			Count:    counts[name],
		})
	}
	return out
}

func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= locationLabelMaxRune {
		return name
	}
	return string(runes[:locationLabelMaxRune]) + "..."
}

// PriorityCount pairs a priority with its ticket count.
type PriorityCount struct {
	Priority domain.TicketPriority `json:"priority"`
	Count    int                   `json:"count"`
}

// CountByPriority counts across all four levels, zero counts included.
func CountByPriority(tickets []domain.Ticket) []PriorityCount {
	out := make([]PriorityCount, 0, len(domain.AllPriorities))
	for _, p := range domain.AllPriorities {
		count := 0
		for _, t := range tickets {
			if t.Priority == p {
				count++
			}
		}
		out = append(out, PriorityCount{Priority: p, Count: count})
	}
	return out
}

// DayCount is a time-series bucket for one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CreatedPerDay counts tickets created per calendar day, ascending.
func CreatedPerDay(tickets []domain.Ticket) []DayCount {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[t.CreatedAt.Format("2006-01-02")]++
	}
	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]DayCount, 0, len(dates))
	for _, date := range dates {
		out = append(out, DayCount{Date: date, Count: counts[date]})
	}
	return out
}

// ResolutionPoint is one resolved ticket on the resolution-time trend.
type ResolutionPoint struct {
	TicketID string `json:"ticketId"`
	Date     string `json:"date"`
	Days     int    `json:"days"`
}

// ResolutionTrend lists (resolution date, days-to-resolve) for every
// resolved ticket, ascending by resolution time.
func ResolutionTrend(tickets []domain.Ticket) []ResolutionPoint {
	resolved := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.ResolvedAt != nil {
			resolved = append(resolved, t)
		}
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].ResolvedAt.Before(*resolved[j].ResolvedAt)
	})

	out := make([]ResolutionPoint, 0, len(resolved))
	for _, t := range resolved {
		out = append(out, ResolutionPoint{
			TicketID: t.ID,
			Date:     t.ResolvedAt.Format("2006-01-02"),
			Days:     DaysBetween(t.CreatedAt, *t.ResolvedAt),
		})
	}
	return out
}

// Summary bundles the dashboard headline numbers. AvgResolutionDays is nil
// when no ticket has resolved, never zero.
type Summary struct {
	Total             int      `json:"total"`
	Open              int      `json:"open"`
	Resolved          int      `json:"resolved"`
	AvgResolutionDays *float64 `json:"avgResolutionDays,omitempty"`
}

// Summarize computes the headline numbers over an already-filtered set.
func Summarize(tickets []domain.Ticket) Summary {
	open, resolved := CountOpenResolved(tickets)
	s := Summary{Total: len(tickets), Open: open, Resolved: resolved}
	if avg, ok := AverageResolutionDays(tickets); ok {
		s.AvgResolutionDays = &avg
	}
	return s
}
