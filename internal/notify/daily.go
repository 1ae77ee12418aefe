// Package notify builds and dispatches the scheduled daily summary
// texts sent to every active supplier that delivered milk that day.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/dairy-collection/internal/auth"
	"github.com/iliyamo/dairy-collection/internal/model"
	"github.com/iliyamo/dairy-collection/internal/queue"
	"github.com/iliyamo/dairy-collection/internal/repository"
	"github.com/iliyamo/dairy-collection/internal/stats"
)

type supplierLister interface {
	List(ctx context.Context, activeOnly bool) ([]*model.Supplier, error)
}

type collectionLister interface {
	List(ctx context.Context, actor auth.Actor, f repository.CollectionFilter) ([]model.CollectionRecord, error)
}

// Publisher enqueues one outbound SMS. The queue publisher satisfies
// this; tests substitute a capture function.
type Publisher func(ctx context.Context, ev queue.OutboundSMS) error

// Status reports the outcome for one recipient of a batch run.
type Status struct {
	SupplierCode string
	Phone        string
	Queued       bool
	Err          error
}

// Deps bundles what a daily run needs.
type Deps struct {
	Suppliers   supplierLister
	Collections collectionLister
	Publish     Publisher
}

// summaryBody renders the supplier-facing message for one day.
func summaryBody(s *model.Supplier, date string, sum stats.Summary) string {
	return fmt.Sprintf("Dear %s, your milk summary for %s: %s L collected, total %s. Entries: %d. - Dairy Co-op",
		s.FullName, date, sum.TotalLiters.StringFixed(2), sum.TotalAmount.StringFixed(2), sum.Entries)
}

// RunDaily builds and enqueues the summary for the given literal date
// (YYYY-MM-DD). One recipient's failure never aborts the batch: every
// active supplier is attempted and the per-recipient outcome comes
// back as a status list. Suppliers with no pickups that day, no phone
// or no records are skipped silently.
func RunDaily(ctx context.Context, d Deps, date string) ([]Status, error) {
	system := auth.Actor{Role: model.RoleAdmin} // batch runs with full visibility

	suppliers, err := d.Suppliers.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	var out []Status
	for _, s := range suppliers {
		if s.Phone == "" {
			continue
		}
		records, err := d.Collections.List(ctx, system, repository.CollectionFilter{
			SupplierID: s.ID,
			DateFrom:   date,
			DateTo:     date,
		})
		if err != nil {
			out = append(out, Status{SupplierCode: s.Code, Phone: s.Phone, Err: err})
			continue
		}
		if len(records) == 0 {
			continue
		}
		ev := queue.OutboundSMS{
			Phone:    s.Phone,
			Body:     summaryBody(s, date, stats.Summarize(records)),
			Kind:     "daily_summary",
			QueuedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := d.Publish(ctx, ev); err != nil {
			out = append(out, Status{SupplierCode: s.Code, Phone: s.Phone, Err: err})
			continue
		}
		out = append(out, Status{SupplierCode: s.Code, Phone: s.Phone, Queued: true})
	}
	return out, nil
}

// StartDailyScheduler blocks until the next occurrence of hour (local
// time) every day and runs the batch for that day's date. Meant to be
// launched as a goroutine from main.
func StartDailyScheduler(hour int, d Deps) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		time.Sleep(time.Until(next))

		date := time.Now().Format("2006-01-02")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		statuses, err := RunDaily(ctx, d, date)
		cancel()
		if err != nil {
			log.Printf("daily-summary: run for %s failed: %v", date, err)
			continue
		}
		queued, failed := 0, 0
		for _, st := range statuses {
			if st.Queued {
				queued++
			} else {
				failed++
				log.Printf("daily-summary: %s (%s) failed: %v", st.SupplierCode, st.Phone, st.Err)
			}
		}
		log.Printf("daily-summary: %s queued=%d failed=%d", date, queued, failed)
	}
}
