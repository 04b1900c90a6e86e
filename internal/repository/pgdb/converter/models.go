package converter

import "time"

// CatalogItemModel представляет запись таблицы catalog_items в PostgreSQL.
type CatalogItemModel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// IndexRunModel представляет запись таблицы index_runs в PostgreSQL.
type IndexRunModel struct {
	ID         string     `db:"id"`
	Modality   string     `db:"modality"`
	State      string     `db:"state"`
	Attempted  int        `db:"attempted"`
	Succeeded  int        `db:"succeeded"`
	Failed     int        `db:"failed"`
	Skipped    int        `db:"skipped"`
	Failures   []byte     `db:"failures"` // jsonb
	Error      *string    `db:"error"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	RunID       string     `db:"run_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
