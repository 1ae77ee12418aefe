package stats

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dairy-collection/internal/model"
)

func TestWriteCollectionsCSVColumnOrder(t *testing.T) {
	r := rec(1, "2026-08-25", "120.50", "35.00", "4217.50", nil)
	r.SupplierCode = "SUP-014"
	r.CreatedByName = strp("Asha")

	var buf bytes.Buffer
	require.NoError(t, WriteCollectionsCSV(&buf, []model.CollectionRecord{r}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Supplier", "Quantity (L)", "Rate", "Amount", "Prepared By"}, rows[0])
	assert.Equal(t, []string{"2026-08-25", "SUP-014", "120.50", "35.00", "4217.50", "Asha"}, rows[1])
}

func TestWriteCollectionsCSVEmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCollectionsCSV(&buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 25, 17, 4, 0, 0, time.UTC)
	assert.Equal(t, "collections-2026-08-25.csv", ExportFilename(now))
}
