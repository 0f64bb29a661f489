package artifacts

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// MirrorSQLite writes every result table into one SQLite database so the
// downstream notebooks can query results without re-parsing CSV. Tables
// are dropped and recreated: the mirror always reflects exactly this run.
func MirrorSQLite(logger *zap.Logger, path string, tables []Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open results database: %w", err)
	}
	defer db.Close()

	for _, t := range tables {
		if err := mirrorTable(db, t); err != nil {
			return fmt.Errorf("mirror table %s: %w", t.Name, err)
		}
	}
	logger.Info("mirrored results to sqlite", zap.String("path", path), zap.Int("tables", len(tables)))
	return nil
}

func mirrorTable(db *sql.DB, t Table) error {
	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, t.Name)); err != nil {
		return err
	}

	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		kind := "TEXT"
		switch c.Kind {
		case Real:
			kind = "REAL"
		case Integer:
			kind = "INTEGER"
		}
		defs[i] = fmt.Sprintf("%q %s", c.Name, kind)
	}
	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE %q (%s)`, t.Name, strings.Join(defs, ", "))); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ")
	stmt, err := db.Prepare(fmt.Sprintf(`INSERT INTO %q VALUES (%s)`, t.Name, placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]any, len(row))
		for i, cell := range row {
			if cell == "" {
				args[i] = nil // missing value -> NULL
			} else {
				args[i] = cell
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return nil
}
