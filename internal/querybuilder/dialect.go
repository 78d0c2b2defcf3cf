package querybuilder

import "fmt"

// Dialect supplies the few SQL fragments that differ between databases.
// Everything else the builder emits is portable.
type Dialect interface {
	Name() string
	// HourOf yields the hour of day (0-23) of a timestamp column as an integer.
	HourOf(col string) string
	// DayOf yields a timestamp column's calendar date as YYYY-MM-DD text.
	DayOf(col string) string
	// SecondsBetween yields to-from in seconds.
	SecondsBetween(from, to string) string
	// HealthQuery returns one row with text columns "time" and "version".
	HealthQuery() string
}

func DialectFor(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return Postgres{}, nil
	case "sqlite":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("no SQL dialect for %q", name)
	}
}

type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

// HourOf and DayOf read timestamps in UTC whatever the session time zone.
func (Postgres) HourOf(col string) string {
	return fmt.Sprintf("CAST(EXTRACT(HOUR FROM %s AT TIME ZONE 'UTC') AS INTEGER)", col)
}

func (Postgres) DayOf(col string) string {
	return fmt.Sprintf("TO_CHAR(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD')", col)
}

func (Postgres) SecondsBetween(from, to string) string {
	return fmt.Sprintf("EXTRACT(EPOCH FROM (%s - %s))", to, from)
}

func (Postgres) HealthQuery() string {
	return "SELECT CAST(NOW() AS TEXT) AS time, version() AS version"
}

type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) HourOf(col string) string {
	return fmt.Sprintf("CAST(strftime('%%H', %s) AS INTEGER)", col)
}

func (SQLite) DayOf(col string) string {
	return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", col)
}

func (SQLite) SecondsBetween(from, to string) string {
	return fmt.Sprintf("((julianday(%s) - julianday(%s)) * 86400.0)", to, from)
}

func (SQLite) HealthQuery() string {
	return "SELECT datetime('now') AS time, sqlite_version() AS version"
}
