package sqlite

import "database/sql"

// schema sets up the debt ledger. Timestamps are Unix seconds, amounts are
// integer minor units.
const schema = `
CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    counterparty_name TEXT NOT NULL,
    counterparty_contact TEXT NOT NULL DEFAULT '',
    amount INTEGER NOT NULL CHECK (amount > 0),
    direction TEXT NOT NULL CHECK (direction IN ('lent', 'borrowed')),
    description TEXT NOT NULL DEFAULT '',
    due_date INTEGER NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('pending', 'paid')),
    created_at INTEGER NOT NULL,
    paid_at INTEGER,
    split_id TEXT,
    version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_debts_owner_id ON debts(owner_id);
CREATE INDEX IF NOT EXISTS idx_debts_owner_status ON debts(owner_id, status);
CREATE INDEX IF NOT EXISTS idx_debts_split_id ON debts(split_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
