package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS blocks (
		number      BIGINT PRIMARY KEY,
		hash        TEXT   NOT NULL,
		parent_hash TEXT   NOT NULL,
		timestamp   BIGINT NOT NULL,
		gas_used    BIGINT NOT NULL,
		gas_limit   BIGINT NOT NULL,
		base_fee    TEXT,
		tx_count    BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		hash         TEXT   PRIMARY KEY,
		block_number BIGINT NOT NULL,
		tx_index     BIGINT NOT NULL,
		from_addr    TEXT   NOT NULL,
		to_addr      TEXT,
		value        TEXT   NOT NULL,
		gas_used     BIGINT NOT NULL,
		gas_price    TEXT   NOT NULL,
		input        BYTEA  NOT NULL,
		status       BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_block ON transactions(block_number)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_from  ON transactions(from_addr)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_to    ON transactions(to_addr)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id           BIGSERIAL PRIMARY KEY,
		block_number BIGINT NOT NULL,
		tx_hash      TEXT   NOT NULL,
		log_index    BIGINT NOT NULL,
		address      TEXT   NOT NULL,
		topic0       TEXT,
		topic1       TEXT,
		topic2       TEXT,
		topic3       TEXT,
		data         BYTEA
	)`,
	`CREATE INDEX IF NOT EXISTS idx_log_block   ON logs(block_number)`,
	`CREATE INDEX IF NOT EXISTS idx_log_address ON logs(address)`,
	`CREATE INDEX IF NOT EXISTS idx_log_topic0  ON logs(topic0)`,
}
