package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/transactions.csv"

func csvFormat(t *testing.T) Format {
	t.Helper()
	f, ok := DefaultRegistry().Get("csv")
	require.True(t, ok)
	return f
}

func TestLoad_Fixture(t *testing.T) {
	tbl, err := Load(fixture, csvFormat(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"transaction_id", "amount", "merchant", "location", "timestamp", "is_fraud"}, tbl.Columns)
	assert.Equal(t, 30, tbl.Len())
	assert.Equal(t, []string{"TXN1001", "12.50", "Amazon", "Chicago", "2025-01-01 08:15:00", "0"}, tbl.Rows[0])
	assert.Equal(t, "New York", tbl.Value(2, "location"))
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), csvFormat(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_KeepsNumbersAsText(t *testing.T) {
	tbl, err := Read(strings.NewReader("amount,is_fraud\n007.50,1\n1e3,0\n"), csvFormat(t))
	require.NoError(t, err)
	assert.Equal(t, "007.50", tbl.Rows[0][0])
	assert.Equal(t, "1e3", tbl.Rows[1][0])
}

func TestRead_TabDelimited(t *testing.T) {
	f, ok := DefaultRegistry().Get("tsv")
	require.True(t, ok)

	tbl, err := Read(strings.NewReader("merchant\tamount\nBest, Buy\t10\n"), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"merchant", "amount"}, tbl.Columns)
	assert.Equal(t, "Best, Buy", tbl.Rows[0][0])
}

func TestRead_StripsBOM(t *testing.T) {
	tbl, err := Read(strings.NewReader("\ufefftransaction_id,amount\nT1,5\n"), csvFormat(t))
	require.NoError(t, err)
	assert.Equal(t, "transaction_id", tbl.Columns[0])
}

func TestRead_KeepsMissingValueMarkers(t *testing.T) {
	data := "merchant,is_fraud\nNA,0\nN/A,1\n<nil>,0\nNaN,1\n,0\n"
	tbl, err := Read(strings.NewReader(data), csvFormat(t))
	require.NoError(t, err)

	var merchants []string
	for i := range tbl.Rows {
		merchants = append(merchants, tbl.Value(i, "merchant"))
	}
	assert.Equal(t, []string{"NA", "N/A", "<nil>", "NaN", ""}, merchants)
}

func TestRead_DuplicateHeaderAfterTrim(t *testing.T) {
	_, err := Read(strings.NewReader("amount, x ,x\n1,2,3\n"), csvFormat(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), `duplicate column "x"`)
}

func TestRead_Ragged(t *testing.T) {
	_, err := Read(strings.NewReader("a,b,c\n1,2,3\n4,5\n"), csvFormat(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), csvFormat(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWriteTable_RoundTrip(t *testing.T) {
	tbl, err := Load(fixture, csvFormat(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl))

	got, err := Read(&buf, csvFormat(t))
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, got.Columns)
	assert.Equal(t, tbl.Rows, got.Rows)
}

func TestRegistry_Resolve(t *testing.T) {
	r := DefaultRegistry()

	f, err := r.Resolve("data/x.TSV", "")
	require.NoError(t, err)
	assert.Equal(t, "tsv", f.Name)

	f, err = r.Resolve("data/x.txt", "psv")
	require.NoError(t, err)
	assert.Equal(t, '|', f.Delimiter)

	_, err = r.Resolve("data/x.txt", "")
	assert.Error(t, err)

	_, err = r.Resolve("data/x.csv", "xlsx")
	assert.Error(t, err)
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	_, ok := r.Get("CSV")
	assert.True(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(Format{Name: "csv", Delimiter: ','})
	assert.Panics(t, func() { r.Register(Format{Name: "CSV", Delimiter: ';'}) })
}

func TestScan_FindsDatasets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tsv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old.csv"), 0o755))

	files, err := DefaultRegistry().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.tsv", files[0].Name)
	assert.Equal(t, "tsv", files[0].Format)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := DefaultRegistry().Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}
