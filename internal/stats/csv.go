package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/iliyamo/dairy-collection/internal/model"
)

// csvHeader is the fixed export column order consumed by the
// cooperative's spreadsheets. Do not reorder.
var csvHeader = []string{"Date", "Supplier", "Quantity (L)", "Rate", "Amount", "Prepared By"}

// WriteCollectionsCSV serialises collection records to CSV in the
// fixed column order. Records are written in the order given; callers
// pass them already sorted most recent first.
func WriteCollectionsCSV(w io.Writer, records []model.CollectionRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		preparer := ""
		if r.CreatedByName != nil {
			preparer = *r.CreatedByName
		}
		if err := writer.Write([]string{
			r.CollectedOn,
			r.SupplierCode,
			r.QuantityLiters.StringFixed(2),
			r.RatePerLiter.StringFixed(2),
			r.TotalAmount.StringFixed(2),
			preparer,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportFilename stamps a collections export with the export date.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("collections-%s.csv", now.Format("2006-01-02"))
}
