package export

import (
	"context"
	"encoding/json"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
	"github.com/school-kit/helpdesk-service/internal/store"
	"github.com/school-kit/helpdesk-service/pkg/util"
)

// Bundle is the backup interchange format. Either collection may be absent;
// import applies only what is present.
type Bundle struct {
	Users      []domain.User   `json:"users,omitempty"`
	Tickets    []domain.Ticket `json:"tickets,omitempty"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// Exporter reads and writes whole-store backups.
type Exporter struct {
	records store.RecordStore
	now     func() time.Time
}

// NewExporter constructs an exporter over the record store.
func NewExporter(records store.RecordStore) *Exporter {
	return &Exporter{records: records, now: time.Now}
}

// ExportBundle snapshots both collections.
func (e *Exporter) ExportBundle(ctx context.Context) (Bundle, error) {
	users, err := e.records.Users(ctx)
	if err != nil {
		return Bundle{}, err
	}
	tickets, err := e.records.Tickets(ctx)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Users: users, Tickets: tickets, ExportedAt: e.now()}, nil
}

// ImportBundle decodes raw JSON and replaces whichever collections the
// bundle carries. A bundle with neither field is rejected.
func (e *Exporter) ImportBundle(ctx context.Context, raw []byte) error {
	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return util.NewValidationError("invalid bundle JSON", map[string]any{"error": err.Error()})
	}
	return e.Import(ctx, bundle)
}

// Import applies a decoded bundle.
func (e *Exporter) Import(ctx context.Context, bundle Bundle) error {
	if bundle.Users == nil && bundle.Tickets == nil {
		return util.NewValidationError("bundle contains no collections", nil)
	}
	if bundle.Users != nil {
		if err := e.records.SetUsers(ctx, bundle.Users); err != nil {
			return err
		}
	}
	if bundle.Tickets != nil {
		for i := range bundle.Tickets {
			bundle.Tickets[i].Normalize()
		}
		if err := e.records.SetTickets(ctx, bundle.Tickets); err != nil {
			return err
		}
	}
	return nil
}
