package users

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expiry_date TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			daily_quota INTEGER NOT NULL CHECK (daily_quota > 0),
			usage_count INTEGER NOT NULL DEFAULT 0,
			last_usage_date TEXT NOT NULL,
			version BIGINT NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC);
	`

	queryCreate = `
		INSERT INTO users (username, password_hash, expiry_date, daily_quota, last_usage_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
	`

	queryFindByID = `
		SELECT id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
		FROM users
		WHERE id = $1
	`

	queryFindByUsername = `
		SELECT id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
		FROM users
		WHERE username = $1
	`

	queryList = `
		SELECT id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
		FROM users
		ORDER BY created_at DESC
	`

	queryUpdateActive = `
		UPDATE users
		SET is_active = $1, version = version + 1
		WHERE id = $2
		RETURNING id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
	`

	queryUpdatePassword = `
		UPDATE users
		SET password_hash = $1, version = version + 1
		WHERE id = $2
		RETURNING id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
	`

	queryUpdateQuota = `
		UPDATE users
		SET daily_quota = $1, version = version + 1
		WHERE id = $2
		RETURNING id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
	`

	queryUpdateUsage = `
		UPDATE users
		SET usage_count = $1, last_usage_date = $2, version = version + 1
		WHERE id = $3
		RETURNING id::text, username, password_hash, is_active, expiry_date, created_at, daily_quota, usage_count, last_usage_date, version
	`

	queryDelete = `
		DELETE FROM users
		WHERE id = $1
	`
)
