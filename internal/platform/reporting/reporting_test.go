package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFindMeasure(t *testing.T) {
	m := FindMeasure("donor-count-by-blood-type")
	require.NotNil(t, m, "known measure not found")
	assert.True(t, strings.Contains(m.SQL, "FROM donor"), "unexpected SQL: %s", m.SQL)

	assert.Nil(t, FindMeasure("no-such-measure"))
}

func TestMeasureIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range PredefinedMeasures {
		assert.False(t, seen[m.ID], "duplicate measure id %q", m.ID)
		seen[m.ID] = true
	}
}

func TestBuildWorkbook(t *testing.T) {
	results := []map[string]interface{}{
		{"blood_type": "A+", "total": 12},
		{"blood_type": "O-", "total": 4},
	}

	data, err := BuildWorkbook("Donors", results)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "workbook does not open")
	defer f.Close()

	rows, err := f.GetRows("Donors")
	require.NoError(t, err)
	require.Len(t, rows, 3, "want header + 2 data rows")

	// Columns sorted by name: blood_type, total.
	assert.Equal(t, []string{"blood_type", "total"}, rows[0])
	assert.Equal(t, "A+", rows[1][0])
	assert.Equal(t, "O-", rows[2][0])
}

func TestBuildWorkbookEmpty(t *testing.T) {
	data, err := BuildWorkbook("Empty", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Empty", "A1")
	require.NoError(t, err)
	assert.Equal(t, "no data", v, "want placeholder in A1")
}
