package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pv-bknd/internal/config"
	"pv-bknd/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// New connects to Postgres and returns a Bun DB handle.
func New(dsn string, cfg *config.Config) (*bun.DB, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(30*time.Second),
		pgdriver.WithDialTimeout(10*time.Second),
		pgdriver.WithReadTimeout(30*time.Second),
		pgdriver.WithWriteTimeout(15*time.Second),
		pgdriver.WithConnParams(map[string]interface{}{
			"search_path":       searchPath(cfg.DBSchema),
			"statement_timeout": "30s",
		}),
	)

	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())

	// Configure connection pool
	sqldb.SetMaxOpenConns(10)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxLifetime(5 * time.Minute)
	sqldb.SetConnMaxIdleTime(10 * time.Minute)

	// Optional query logging
	if cfg.BunDebug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func searchPath(schema string) string {
	if schema == "" || schema == "public" {
		return "public"
	}
	return schema + ", public"
}

// Migrate creates the schema and the catalog and project tables when missing.
func Migrate(ctx context.Context, db *bun.DB, schema string) error {
	if schema != "" && schema != "public" {
		if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS ?", bun.Ident(schema)); err != nil {
			return fmt.Errorf("create schema %s: %w", schema, err)
		}
	}

	for _, model := range []interface{}{
		(*models.Component)(nil),
		(*models.Project)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	_, err := db.NewCreateIndex().
		Model((*models.Component)(nil)).
		Index("components_category_idx").
		Column("category").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create components index: %w", err)
	}
	return nil
}
