package domain

import "fmt"

type Driver string

const (
	DriverDuckDB     Driver = "duckdb"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
	DriverSnowflake  Driver = "snowflake"
	DriverDatabricks Driver = "databricks"
)

// SourceProfile is a named connection to a relational source holding the
// sales tables.
type SourceProfile struct {
	Name    string
	Driver  Driver
	DSN     string
	Options map[string]string
}

func (p SourceProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Driver, p.Name)
}
