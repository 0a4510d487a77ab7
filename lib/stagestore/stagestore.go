package stagestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	configsqlite "cyclestats/lib/configutil/sqlite"
	"cyclestats/lib/scrapers/procyclingstats"
	"cyclestats/lib/stagestore/db"
	"cyclestats/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("cyclestats.lib.stagestore")

// Store keeps one row per stage, keyed by its stage_url.
type Store struct {
	db *sql.DB
}

func New(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens the database described by config and applies the schema.
func Open(config configsqlite.Struct) (Store, *sql.DB, error) {
	database, err := config.OpenDB(db.Schema)
	if err != nil {
		return Store{}, nil, fmt.Errorf("open stage store: %w", err)
	}
	return New(database), database, nil
}

func recordKey(record procyclingstats.StageRecord) (string, string, int64, error) {
	url, ok := record["stage_url"].(string)
	if !ok || url == "" {
		return "", "", 0, fmt.Errorf("record has no stage_url")
	}
	race, _ := record["race"].(string)

	var year int64
	switch v := record["year"].(type) {
	case int:
		year = int64(v)
	case int64:
		year = v
	case float64:
		year = int64(v)
	}
	return url, race, year, nil
}

// Save writes every record in a single transaction, records with an
// existing stage_url replace the stored one.
func (s Store) Save(ctx context.Context, records []procyclingstats.StageRecord) error {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, record := range records {
		url, race, year, err := recordKey(record)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("encode %s: %w", url, err)
		}

		_, err = tx.ExecContext(
			ctx,
			`insert or replace into stage_record(stage_url, race, year, record, saved_at)
			values (?, ?, ?, ?, ?)`,
			url, race, year, string(encoded), now,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("save %s: %w", url, err)
		}
	}

	return tx.Commit()
}

// List returns every stored record ordered by stage_url. Values come back
// as decoded JSON, so numbers are float64.
func (s Store) List(ctx context.Context) ([]procyclingstats.StageRecord, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, "select record from stage_record order by stage_url")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var out []procyclingstats.StageRecord
	for rows.Next() {
		var encoded string
		err := rows.Scan(&encoded)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		var record procyclingstats.StageRecord
		err = json.Unmarshal([]byte(encoded), &record)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
