package repository

const (
	insertSession = `
		INSERT INTO sessions (id, user_id, name, model, temperature)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	// Materializes session metadata for a message whose session was never
	// explicitly created. No-op when the row already exists.
	ensureSession = `
		INSERT INTO sessions (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`

	selectSession = `
		SELECT id, user_id, name, model, temperature, created_at
		FROM sessions
		WHERE id = $1`

	insertMessage = `
		INSERT INTO messages (session_id, user_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	selectMessages = `
		SELECT id, session_id, user_id, role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at, id`

	selectSessionsByUser = `
		SELECT s.id, s.name, COALESCE(MAX(m.created_at), s.created_at) AS last_used
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		WHERE s.user_id = $1
		GROUP BY s.id, s.name, s.created_at
		ORDER BY last_used DESC`

	// Messages go with the session via ON DELETE CASCADE, so one statement
	// removes the whole conversation atomically.
	deleteSessionByID = `DELETE FROM sessions WHERE id = $1`

	updateSessionName = `UPDATE sessions SET name = $2 WHERE id = $1`

	selectFirstUserMessage = `
		SELECT content
		FROM messages
		WHERE session_id = $1 AND role = 'user'
		ORDER BY created_at, id
		LIMIT 1`
)
