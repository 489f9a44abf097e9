package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The wire strings
// are display strings; existing exports and stored records use them.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "New"
	TicketStatusAssigned   TicketStatus = "Assigned"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusOnHold     TicketStatus = "On Hold"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
	TicketStatusReopened   TicketStatus = "Reopened"
)

// AllStatuses lists every status in display order.
var AllStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusOnHold,
	TicketStatusResolved,
	TicketStatusClosed,
	TicketStatusReopened,
}

// IsValid reports whether s is one of the seven defined states.
func (s TicketStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// AllPriorities lists every priority from least to most urgent.
var AllPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityCritical,
}

// IsValid reports whether p is a known priority.
func (p TicketPriority) IsValid() bool {
	for _, known := range AllPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// TicketCategory splits issues into the two triage queues.
type TicketCategory string

const (
	CategoryHardware TicketCategory = "Hardware"
	CategorySoftware TicketCategory = "Software"
)

// IsValid reports whether c is a known category.
func (c TicketCategory) IsValid() bool {
	return c == CategoryHardware || c == CategorySoftware
}

// HistoryEntry is an immutable audit trail entry on a ticket.
type HistoryEntry struct {
	Action string    `json:"action"`
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// Comment is a message appended to a ticket thread.
type Comment struct {
	By   string    `json:"by"`
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// Ticket is the aggregate for help-desk requests. History and comments are
// append-only sequences embedded in the record.
type Ticket struct {
	ID          string         `json:"id"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Category    TicketCategory `json:"category"`
	Subcategory string         `json:"subcategory"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	SubmittedBy string         `json:"submittedBy"`
	AssignedTo  string         `json:"assignedTo,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	ClosedAt    *time.Time     `json:"closedAt,omitempty"`
	History     []HistoryEntry `json:"history"`
	Comments    []Comment      `json:"comments"`
	Version     int            `json:"version"`
}

// Normalize defaults absent optional sequences to empty slices. Imported
// records may omit them entirely.
func (t *Ticket) Normalize() {
	if t.History == nil {
		t.History = []HistoryEntry{}
	}
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
}
