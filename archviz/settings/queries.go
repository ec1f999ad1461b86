package settings

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			api_key TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING;
	`

	queryGet = `
		SELECT api_key, updated_at
		FROM settings
		WHERE id = 1
	`

	querySetAPIKey = `
		INSERT INTO settings (id, api_key, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id)
		DO UPDATE SET api_key = EXCLUDED.api_key, updated_at = NOW()
		RETURNING api_key, updated_at
	`

	queryClearAPIKey = `
		UPDATE settings
		SET api_key = '', updated_at = NOW()
		WHERE id = 1
	`
)
