package sqlite

// pragmas are applied on the single connection before any insert.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA cache_size=-65536",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS blocks (
		number      INTEGER PRIMARY KEY,
		hash        TEXT    NOT NULL,
		parent_hash TEXT    NOT NULL,
		timestamp   INTEGER NOT NULL,
		gas_used    INTEGER NOT NULL,
		gas_limit   INTEGER NOT NULL,
		base_fee    TEXT,
		tx_count    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		hash         TEXT    PRIMARY KEY,
		block_number INTEGER NOT NULL REFERENCES blocks(number),
		tx_index     INTEGER NOT NULL,
		from_addr    TEXT    NOT NULL,
		to_addr      TEXT,
		value        TEXT    NOT NULL,
		gas_used     INTEGER NOT NULL,
		gas_price    TEXT    NOT NULL,
		input        BLOB    NOT NULL,
		status       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_block ON transactions(block_number)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_from  ON transactions(from_addr)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_to    ON transactions(to_addr)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		block_number INTEGER NOT NULL REFERENCES blocks(number),
		tx_hash      TEXT    NOT NULL REFERENCES transactions(hash),
		log_index    INTEGER NOT NULL,
		address      TEXT    NOT NULL,
		topic0       TEXT,
		topic1       TEXT,
		topic2       TEXT,
		topic3       TEXT,
		data         BLOB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_log_block   ON logs(block_number)`,
	`CREATE INDEX IF NOT EXISTS idx_log_address ON logs(address)`,
	`CREATE INDEX IF NOT EXISTS idx_log_topic0  ON logs(topic0)`,
}

// captureSchema holds the tables only a capture database carries.
var captureSchema = []string{
	`CREATE TABLE IF NOT EXISTS traces (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		block_number INTEGER NOT NULL REFERENCES blocks(number),
		tx_hash      TEXT    NOT NULL,
		tx_index     INTEGER NOT NULL,
		trace_json   TEXT    NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trace_block ON traces(block_number)`,
	`CREATE INDEX IF NOT EXISTS idx_trace_tx    ON traces(tx_hash)`,
	`CREATE TABLE IF NOT EXISTS sync_state (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		last_block INTEGER NOT NULL
	)`,
}
