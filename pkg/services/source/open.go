package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/databricks/databricks-sdk-go/config"
	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	storesql "github.com/de-tools/sales-atlas/pkg/store/sql"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	sf "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var ErrUnsupportedDriver = errors.New("unsupported driver")

var sqlOpen = sql.Open

// Connection is an open source database and the reader bound to it.
type Connection struct {
	DB     *sql.DB
	Source storesql.Source
}

func (c *Connection) Close() error {
	return c.DB.Close()
}

// Open connects to the database described by profile and verifies it is
// reachable.
func Open(ctx context.Context, profile domain.SourceProfile) (*Connection, error) {
	db, err := openDB(profile)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", storesql.ErrSourceUnavailable, profile, err)
	}

	src, err := storesql.NewSource(db, Options(profile.Driver)...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Connection{DB: db, Source: src}, nil
}

func openDB(profile domain.SourceProfile) (*sql.DB, error) {
	if profile.Driver == domain.DriverDuckDB {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.DSN, Threads: 4})
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", profile, err)
		}
		return db, nil
	}

	driverName, dsn, err := DSN(profile)
	if err != nil {
		return nil, err
	}
	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", profile, err)
	}
	return db, nil
}

// DSN returns the database/sql driver name and data source name for profile.
// An explicit dsn in the profile wins over the driver specific keys.
func DSN(profile domain.SourceProfile) (string, string, error) {
	opt := func(key string) string { return profile.Options[key] }

	switch profile.Driver {
	case domain.DriverDuckDB:
		return "duckdb", profile.DSN, nil
	case domain.DriverSQLite:
		if profile.DSN == "" {
			return "", "", fmt.Errorf("profile %s: sqlite needs a dsn", profile.Name)
		}
		return "sqlite", profile.DSN, nil
	case domain.DriverPostgres:
		if profile.DSN == "" {
			return "", "", fmt.Errorf("profile %s: postgres needs a dsn", profile.Name)
		}
		return "pgx", profile.DSN, nil
	case domain.DriverSnowflake:
		if profile.DSN != "" {
			return "snowflake", profile.DSN, nil
		}
		dsn, err := sf.DSN(&sf.Config{
			Account:   opt("account"),
			User:      opt("user"),
			Password:  opt("password"),
			Database:  opt("database"),
			Schema:    opt("schema"),
			Warehouse: opt("warehouse"),
			Role:      opt("role"),
		})
		if err != nil {
			return "", "", fmt.Errorf("profile %s: failed to create snowflake DSN: %w", profile.Name, err)
		}
		return "snowflake", dsn, nil
	case domain.DriverDatabricks:
		if profile.DSN != "" {
			return "databricks", profile.DSN, nil
		}
		cfg, err := DatabricksConfig(profile)
		if err != nil {
			return "", "", err
		}
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.Host, "https://"), "http://")
		if host == "" || cfg.Token == "" || opt("http_path") == "" {
			return "", "", fmt.Errorf("profile %s: databricks needs host, token and http_path", profile.Name)
		}
		dsn := fmt.Sprintf("token:%s@%s%s", cfg.Token, host, opt("http_path"))

		params := url.Values{}
		if c := opt("catalog"); c != "" {
			params.Set("catalog", c)
		}
		if s := opt("schema"); s != "" {
			params.Set("schema", s)
		}
		if qp := params.Encode(); qp != "" {
			dsn = dsn + "?" + qp
		}
		return "databricks", dsn, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, profile.Driver)
	}
}

// DatabricksConfig resolves the workspace host and token of a databricks
// profile. Keys the profile leaves out fall back to the DATABRICKS_*
// environment and then to a .databrickscfg profile (config_file and
// config_profile keys, default ~/.databrickscfg and DEFAULT).
func DatabricksConfig(profile domain.SourceProfile) (*config.Config, error) {
	cfg := &config.Config{
		Host:       profile.Options["host"],
		Token:      profile.Options["token"],
		Profile:    profile.Options["config_profile"],
		ConfigFile: profile.Options["config_file"],
	}
	if err := cfg.EnsureResolved(); err != nil {
		return nil, fmt.Errorf("profile %s: failed to resolve databricks config: %w", profile.Name, err)
	}
	return cfg, nil
}

// Options returns the reader options that suit driver: postgres binds with
// $n and supports read-only transactions; duckdb and sqlite take a plain
// transaction; the warehouses read without one.
func Options(driver domain.Driver) []storesql.Option {
	switch driver {
	case domain.DriverPostgres:
		return []storesql.Option{
			storesql.WithPlaceholder(storesql.PlaceholderDollar),
			storesql.WithTxMode(storesql.TxReadOnly),
		}
	case domain.DriverDuckDB, domain.DriverSQLite:
		return []storesql.Option{storesql.WithTxMode(storesql.TxDefault)}
	default:
		return []storesql.Option{storesql.WithTxMode(storesql.TxNone)}
	}
}
