package content

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the schema the scoping layer reads. The optional
// media_site table is not part of the baseline: deployments add it with
// their own migration when they enable direct media-site grants.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create site and permission tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS site (
					id BIGSERIAL PRIMARY KEY,
					slug VARCHAR(255) NOT NULL UNIQUE,
					title VARCHAR(255) NOT NULL DEFAULT ''
				);

				CREATE TABLE IF NOT EXISTS site_permission (
					user_id BIGINT NOT NULL,
					site_id BIGINT NOT NULL REFERENCES site(id) ON DELETE CASCADE,
					PRIMARY KEY (user_id, site_id)
				);

				CREATE INDEX IF NOT EXISTS idx_site_permission_user_id ON site_permission(user_id);
			`,
		},
		{
			Version:     2,
			Description: "Create item tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS item (
					id BIGSERIAL PRIMARY KEY,
					owner_id BIGINT NOT NULL,
					title VARCHAR(255) NOT NULL DEFAULT ''
				);

				CREATE TABLE IF NOT EXISTS item_site (
					item_id BIGINT NOT NULL REFERENCES item(id) ON DELETE CASCADE,
					site_id BIGINT NOT NULL REFERENCES site(id) ON DELETE CASCADE,
					PRIMARY KEY (item_id, site_id)
				);

				CREATE INDEX IF NOT EXISTS idx_item_site_site_id ON item_site(site_id);
			`,
		},
		{
			Version:     3,
			Description: "Create item set tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS item_set (
					id BIGSERIAL PRIMARY KEY,
					owner_id BIGINT NOT NULL,
					title VARCHAR(255) NOT NULL DEFAULT ''
				);

				CREATE TABLE IF NOT EXISTS site_item_set (
					site_id BIGINT NOT NULL REFERENCES site(id) ON DELETE CASCADE,
					item_set_id BIGINT NOT NULL REFERENCES item_set(id) ON DELETE CASCADE,
					PRIMARY KEY (site_id, item_set_id)
				);
			`,
		},
		{
			Version:     4,
			Description: "Create media and asset tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS media (
					id BIGSERIAL PRIMARY KEY,
					item_id BIGINT NOT NULL REFERENCES item(id) ON DELETE CASCADE,
					source VARCHAR(1024) NOT NULL DEFAULT ''
				);

				CREATE INDEX IF NOT EXISTS idx_media_item_id ON media(item_id);

				CREATE TABLE IF NOT EXISTS asset (
					id BIGSERIAL PRIMARY KEY,
					owner_id BIGINT NOT NULL,
					name VARCHAR(255) NOT NULL DEFAULT ''
				);
			`,
		},
		{
			Version:     5,
			Description: "Create user setting table",
			SQL: `
				CREATE TABLE IF NOT EXISTS user_setting (
					user_id BIGINT NOT NULL,
					id VARCHAR(190) NOT NULL,
					value TEXT NOT NULL,
					PRIMARY KEY (user_id, id)
				);
			`,
		},
	}
}

// RunMigrations applies all migrations in order. Each migration runs in its
// own transaction.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, m := range Migrations() {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
