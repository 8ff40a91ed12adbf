package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateFeedCache, downCreateFeedCache)
}

func upCreateFeedCache(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE feed_cache (
		cache_key VARCHAR PRIMARY KEY,
		posts JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL
	);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateFeedCache(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE feed_cache;
	`)
	if err != nil {
		return err
	}
	return nil
}
