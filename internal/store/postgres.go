// Package store reads the GDP table from PostgreSQL as an alternative to the
// data file. The table is kept in long format, one row per (country, year):
//
//	CREATE TABLE gdp_pcap (
//	    country text    NOT NULL,
//	    year    integer NOT NULL,
//	    value   text,
//	    PRIMARY KEY (country, year)
//	);
//
// value is text so abbreviated entries such as "12.3k" survive unchanged;
// numeric columns work too since the query casts to text.
package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/gdpview/internal/config"
	"github.com/JonMunkholm/gdpview/internal/core"
)

// Querier is the subset of *pgxpool.Pool the loader needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Open connects a small pool and verifies it with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Observation is one (country, year, value) row. A NULL value is a missing cell.
type Observation struct {
	Country string
	Year    int
	Value   pgtype.Text
}

// selectSQL builds the dataset query. table may be schema-qualified.
func selectSQL(table string) string {
	ident := pgx.Identifier(strings.Split(table, "."))
	return "SELECT country, year, value::text FROM " + ident.Sanitize() + " ORDER BY country, year"
}

// LoadDataset reads table and builds a dataset with the same rules as a file load.
// Failures are returned as *core.LoadError with source "postgres:<table>".
func LoadDataset(ctx context.Context, q Querier, table string, opts core.LoadOptions) (*core.Dataset, error) {
	source := "postgres:" + table

	rows, err := q.Query(ctx, selectSQL(table))
	if err != nil {
		return nil, &core.LoadError{Source: source, Err: fmt.Errorf("query: %w", err)}
	}
	obs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Observation])
	if err != nil {
		return nil, &core.LoadError{Source: source, Err: fmt.Errorf("scan: %w", err)}
	}

	records, err := Pivot(obs, opts.CountryColumn)
	if err != nil {
		return nil, &core.LoadError{Source: source, Err: err}
	}
	return core.LoadRecords(source, records, opts)
}

// Pivot turns long-format observations into wide records: a header of the
// country column and the sorted distinct years, then one row per country in
// order of first appearance. Years a country lacks are empty.
func Pivot(obs []Observation, countryColumn string) ([][]string, error) {
	if countryColumn == "" {
		countryColumn = core.DefaultCountryColumn
	}

	yearSet := make(map[int]bool)
	for _, o := range obs {
		yearSet[o.Year] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	col := make(map[int]int, len(years))
	header := make([]string, 0, len(years)+1)
	header = append(header, countryColumn)
	for i, y := range years {
		col[y] = i + 1
		header = append(header, strconv.Itoa(y))
	}

	records := [][]string{header}
	rowOf := make(map[string]int)
	filled := make(map[string]map[int]bool)
	for _, o := range obs {
		r, ok := rowOf[o.Country]
		if !ok {
			rec := make([]string, len(header))
			rec[0] = o.Country
			records = append(records, rec)
			r = len(records) - 1
			rowOf[o.Country] = r
			filled[o.Country] = make(map[int]bool)
		}
		if filled[o.Country][o.Year] {
			return nil, fmt.Errorf("duplicate value for %s in %d", o.Country, o.Year)
		}
		filled[o.Country][o.Year] = true
		if o.Value.Valid {
			records[r][col[o.Year]] = o.Value.String
		}
	}
	return records, nil
}
