package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Table layout mirrors the columns downstream tools read directly, so the
// column set is a wire contract. company_id is the hh.ru identifier (unique,
// upsert key); vacancies.url is globally unique (dedup key); deleting an
// employer cascades to its vacancies.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employers (
		employer_id   SERIAL PRIMARY KEY,
		company_id    TEXT UNIQUE NOT NULL,
		company_name  TEXT NOT NULL,
		description   TEXT,
		website       TEXT,
		vacancies_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS vacancies (
		vacancy_id     SERIAL PRIMARY KEY,
		employer_id    INTEGER REFERENCES employers(employer_id) ON DELETE CASCADE,
		vacancy_name   TEXT NOT NULL,
		salary_from    INTEGER,
		salary_to      INTEGER,
		currency       TEXT,
		url            TEXT UNIQUE NOT NULL,
		requirement    TEXT,
		responsibility TEXT
	)`,
}

// EnsureSchema creates both tables if they are absent. Running it against an
// already-initialised database is a no-op and never touches existing rows.
func EnsureSchema(ctx context.Context, db DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// RecreateDatabase drops and recreates the database named in databaseURL by
// connecting to the postgres maintenance database on the same server.
// Destructive — every stored row is lost. Callers reconnect and run
// EnsureSchema afterwards.
func RecreateDatabase(ctx context.Context, databaseURL string) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("database url %q carries no database name", databaseURL)
	}

	maint := *u
	maint.Path = "/postgres"

	conn, err := pgx.Connect(ctx, maint.String())
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	ident := pgx.Identifier{dbName}.Sanitize()
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("drop database %s: %w", dbName, err)
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}

	return nil
}
