package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateDatabricks keeps the developer's environment and ~/.databrickscfg
// out of databricks profile resolution.
func isolateDatabricks(t *testing.T) string {
	t.Helper()
	cfgFile := filepath.Join(t.TempDir(), "databrickscfg")
	require.NoError(t, os.WriteFile(cfgFile, nil, 0o600))
	t.Setenv("DATABRICKS_CONFIG_FILE", cfgFile)
	t.Setenv("DATABRICKS_CONFIG_PROFILE", "")
	t.Setenv("DATABRICKS_HOST", "")
	t.Setenv("DATABRICKS_TOKEN", "")
	return cfgFile
}

func TestDSN(t *testing.T) {
	isolateDatabricks(t)

	tests := []struct {
		name       string
		profile    domain.SourceProfile
		wantDriver string
		wantDSN    string
		contains   []string
		wantErr    bool
	}{
		{
			name:       "sqlite",
			profile:    domain.SourceProfile{Name: "lite", Driver: domain.DriverSQLite, DSN: "/tmp/sales.db"},
			wantDriver: "sqlite",
			wantDSN:    "/tmp/sales.db",
		},
		{
			name:    "sqlite without dsn",
			profile: domain.SourceProfile{Name: "lite", Driver: domain.DriverSQLite},
			wantErr: true,
		},
		{
			name:       "postgres",
			profile:    domain.SourceProfile{Name: "pg", Driver: domain.DriverPostgres, DSN: "postgres://localhost/sales"},
			wantDriver: "pgx",
			wantDSN:    "postgres://localhost/sales",
		},
		{
			name: "databricks from keys",
			profile: domain.SourceProfile{Name: "lake", Driver: domain.DriverDatabricks, Options: map[string]string{
				"host":      "https://dbc-123.cloud.databricks.com",
				"token":     "dapi123",
				"http_path": "/sql/1.0/warehouses/abc",
				"catalog":   "main",
			}},
			wantDriver: "databricks",
			wantDSN:    "token:dapi123@dbc-123.cloud.databricks.com/sql/1.0/warehouses/abc?catalog=main",
		},
		{
			name:    "databricks missing token",
			profile: domain.SourceProfile{Name: "lake", Driver: domain.DriverDatabricks, Options: map[string]string{"host": "h"}},
			wantErr: true,
		},
		{
			name: "snowflake from keys",
			profile: domain.SourceProfile{Name: "sf", Driver: domain.DriverSnowflake, Options: map[string]string{
				"account":   "acme-eu1",
				"user":      "reporter",
				"password":  "s3cret",
				"database":  "SALES",
				"warehouse": "REPORTING",
			}},
			wantDriver: "snowflake",
			contains:   []string{"reporter", "acme-eu1", "warehouse=REPORTING", "database=SALES"},
		},
		{
			name:    "unknown driver",
			profile: domain.SourceProfile{Name: "x", Driver: "oracle"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := DSN(tt.profile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			if tt.wantDSN != "" {
				assert.Equal(t, tt.wantDSN, dsn)
			}
			for _, part := range tt.contains {
				assert.Contains(t, dsn, part)
			}
		})
	}
}

func TestDSN_DatabricksFallbacks(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		isolateDatabricks(t)
		t.Setenv("DATABRICKS_TOKEN", "dapi-env")

		_, dsn, err := DSN(domain.SourceProfile{Name: "lake", Driver: domain.DriverDatabricks, Options: map[string]string{
			"host":      "https://dbc-123.cloud.databricks.com",
			"http_path": "/sql/1.0/warehouses/abc",
		}})
		require.NoError(t, err)
		assert.Equal(t, "token:dapi-env@dbc-123.cloud.databricks.com/sql/1.0/warehouses/abc", dsn)
	})

	t.Run("databrickscfg profile", func(t *testing.T) {
		isolateDatabricks(t)
		cfgFile := filepath.Join(t.TempDir(), "databrickscfg")
		require.NoError(t, os.WriteFile(cfgFile, []byte(
			"[analytics]\nhost = https://dbc-456.cloud.databricks.com\ntoken = dapi-file\n"), 0o600))

		_, dsn, err := DSN(domain.SourceProfile{Name: "lake", Driver: domain.DriverDatabricks, Options: map[string]string{
			"config_file":    cfgFile,
			"config_profile": "analytics",
			"http_path":      "/sql/1.0/warehouses/abc",
			"schema":         "sales",
		}})
		require.NoError(t, err)
		assert.Equal(t, "token:dapi-file@dbc-456.cloud.databricks.com/sql/1.0/warehouses/abc?schema=sales", dsn)
	})

	t.Run("profile keys win", func(t *testing.T) {
		isolateDatabricks(t)
		t.Setenv("DATABRICKS_TOKEN", "dapi-env")

		cfg, err := DatabricksConfig(domain.SourceProfile{Name: "lake", Driver: domain.DriverDatabricks, Options: map[string]string{
			"host":  "https://dbc-123.cloud.databricks.com",
			"token": "dapi123",
		}})
		require.NoError(t, err)
		assert.Equal(t, "dapi123", cfg.Token)
	})
}

func TestDSN_UnsupportedDriver(t *testing.T) {
	_, _, err := DSN(domain.SourceProfile{Name: "x", Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpen_UsesDriverFromProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	var gotDriver, gotDSN string
	orig := sqlOpen
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return db, nil
	}
	t.Cleanup(func() { sqlOpen = orig })

	conn, err := Open(context.Background(), domain.SourceProfile{
		Name: "pg", Driver: domain.DriverPostgres, DSN: "postgres://localhost/sales",
	})
	require.NoError(t, err)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, "postgres://localhost/sales", gotDSN)
	assert.NotNil(t, conn.Source)

	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_SQLiteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")

	// Given: a sqlite file holding the sales schema
	seed, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range duckdb.SalesSchema {
		_, err := seed.Exec(stmt)
		require.NoError(t, err)
	}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = seed.Exec(`INSERT INTO regions VALUES ('N', 'North')`)
	require.NoError(t, err)
	_, err = seed.Exec(`INSERT INTO products VALUES ('P1', 'Widget', 'Tools', 'Acme', 4.25)`)
	require.NoError(t, err)
	_, err = seed.Exec(`INSERT INTO customers VALUES ('C1', 'Ada', 'N', 'Retail')`)
	require.NoError(t, err)
	_, err = seed.Exec(`INSERT INTO sales_transactions VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"T1", day, "P1", "C1", nil, 2, 10.5, 21.0)
	require.NoError(t, err)
	_, err = seed.Exec(`INSERT INTO sales_transactions VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"T0", day.AddDate(-3, 0, 0), "P1", "C1", nil, 1, 1.0, 1.0)
	require.NoError(t, err)
	_, err = seed.Exec(`INSERT INTO sales_transactions VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"T2", day, "P1", "C1", nil, nil, 3.0, nil)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	// When
	conn, err := Open(context.Background(), domain.SourceProfile{Name: "lite", Driver: domain.DriverSQLite, DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	snap, err := conn.Source.Snapshot(context.Background(), day.AddDate(-2, 0, 0))

	// Then
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 2)
	tx := snap.Transactions[0]
	assert.Equal(t, "T1", tx.ID)
	assert.False(t, tx.SalesRepID.Valid)
	assert.True(t, decimal.RequireFromString("10.5").Equal(tx.UnitPrice.Decimal))
	assert.True(t, tx.Valid())
	nulls := snap.Transactions[1]
	assert.Equal(t, "T2", nulls.ID)
	assert.False(t, nulls.Quantity.Valid)
	assert.False(t, nulls.TotalAmount.Valid)
	assert.False(t, nulls.Valid())
	require.Len(t, snap.Products, 1)
	assert.True(t, decimal.RequireFromString("4.25").Equal(snap.Products[0].CostPrice))
	assert.Len(t, snap.Customers, 1)
	assert.Len(t, snap.Regions, 1)
	assert.Empty(t, snap.SalesReps)
}
