package export

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/damionrashford/google-trends/pkg/trends"
)

// DefaultDBDir is the directory for generated SQLite databases.
const DefaultDBDir = "google_trends_db"

// TableResult describes a created SQLite table.
type TableResult struct {
	TableName    string   `json:"table_name"`
	RowsInserted int      `json:"rows_inserted"`
	Columns      []string `json:"columns"`
	DatabasePath string   `json:"database_path"`
}

var tableColumns = []string{"trend_date", "keyword", "value", "is_partial"}

// SanitizeTableName reduces a requested table name to a safe SQL identifier.
func SanitizeTableName(name string) string {
	name = unsafeChars.ReplaceAllString(strings.ToLower(name), "_")
	name = strings.Trim(name, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "t_" + name
	}
	return name
}

// TableName builds a table name from the query keywords when the caller did
// not choose one.
func TableName(keywords []string, custom string) string {
	if custom != "" {
		return SanitizeTableName(custom)
	}
	kws := keywords
	if len(kws) > 3 {
		kws = kws[:3]
	}
	slug := strings.ToLower(strings.Join(kws, "_"))
	return SanitizeTableName(fmt.Sprintf("trends_%s_%s", slug, time.Now().Format("20060102_150405")))
}

// CreateTable writes the series into a fresh SQLite database, one row per
// observation per keyword.
func CreateTable(dir, tableName string, series []trends.Series) (TableResult, error) {
	if totalPoints(series) == 0 {
		return TableResult{}, ErrNoData
	}
	if dir == "" {
		dir = DefaultDBDir
	}
	dir, err := ensureDir(dir)
	if err != nil {
		return TableResult{}, err
	}

	tableName = SanitizeTableName(tableName)
	dbPath := filepath.Join(dir, tableName+".db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return TableResult{}, fmt.Errorf("opening sqlite database: %w", err)
	}
	defer db.Close()

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	trend_date TEXT NOT NULL,
	keyword TEXT NOT NULL,
	value INTEGER NOT NULL,
	is_partial INTEGER NOT NULL DEFAULT 0
);`, tableName)
	if _, err := db.Exec(schema); err != nil {
		return TableResult{}, fmt.Errorf("creating table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return TableResult{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (trend_date, keyword, value, is_partial) VALUES (?, ?, ?, ?)", tableName))
	if err != nil {
		return TableResult{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for _, s := range series {
		for _, p := range s.Points {
			partial := 0
			if p.Partial {
				partial = 1
			}
			if _, err := stmt.Exec(p.Time.Format("2006-01-02 15:04:05"), s.Keyword, p.Value, partial); err != nil {
				return TableResult{}, fmt.Errorf("inserting row: %w", err)
			}
			rows++
		}
	}
	if err := tx.Commit(); err != nil {
		return TableResult{}, fmt.Errorf("committing insert: %w", err)
	}

	return TableResult{
		TableName:    tableName,
		RowsInserted: rows,
		Columns:      tableColumns,
		DatabasePath: dbPath,
	}, nil
}
