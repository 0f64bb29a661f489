package artifacts

import (
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTable() Table {
	return Table{
		Name: "ttests_2d",
		Columns: []Column{
			{Name: "variable", Kind: Text},
			{Name: "statistic", Kind: Real},
			{Name: "n", Kind: Integer},
		},
		Rows: [][]string{
			{"P", F(2.5), I(30)},
			{"WT1", F(math.NaN()), I(0)},
		},
	}
}

func TestWriteTable(t *testing.T) {
	store, err := NewStore(zap.NewNop(), t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.WriteTable(testTable()))

	f, err := os.Open(filepath.Join(store.Root(), "tables", "ttests_2d.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"variable", "statistic", "n"}, records[0])
	assert.Equal(t, "2.5", records[1][1])
	assert.Equal(t, "", records[2][1], "NaN serializes as empty field")
}

func TestWriteTableRowWidthMismatch(t *testing.T) {
	store, err := NewStore(zap.NewNop(), t.TempDir())
	require.NoError(t, err)
	bad := testTable()
	bad.Rows = append(bad.Rows, []string{"only-one-cell"})
	require.Error(t, store.WriteTable(bad))
}

func TestMirrorSQLite(t *testing.T) {
	store, err := NewStore(zap.NewNop(), t.TempDir())
	require.NoError(t, err)
	path := store.DatabasePath()
	require.NoError(t, MirrorSQLite(zap.NewNop(), path, []Table{testTable()}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "ttests_2d"`).Scan(&n))
	assert.Equal(t, 2, n)

	var nulls int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "ttests_2d" WHERE statistic IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls, "empty cell becomes NULL")

	var stat float64
	require.NoError(t, db.QueryRow(`SELECT statistic FROM "ttests_2d" WHERE variable = 'P'`).Scan(&stat))
	assert.InDelta(t, 2.5, stat, 1e-9)
}

func TestManifest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(zap.NewNop(), dir)
	require.NoError(t, err)
	require.NoError(t, store.WriteTable(testTable()))

	input := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input, []byte("a,b\n1,2\n"), 0o644))

	m := NewManifest(time.Now(), 42, true)
	require.NoError(t, m.AddInput(input))
	require.NoError(t, m.SetConfig(map[string]int{"permutations": 999}))
	require.NoError(t, m.Write(zap.NewNop(), store, time.Now()))

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, m.RunID)
	assert.Contains(t, s, `"seedFixed": true`)
	assert.Contains(t, s, `"sha256"`)
	assert.Contains(t, s, "ttests_2d")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "", F(math.NaN()))
	assert.Equal(t, "1.25", F(1.25))
	assert.Equal(t, "7", I(7))
}
