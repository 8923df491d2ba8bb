package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kumbusha/core/roster"
)

type sentLogRepository struct {
	db *sqlx.DB
}

var _ roster.SentLog = (*sentLogRepository)(nil)

func NewSentLogRepository(db *sqlx.DB) *sentLogRepository {
	return &sentLogRepository{db: db}
}

func (repo sentLogRepository) WasSent(email, task string, day time.Time) (bool, error) {
	var n int
	err := repo.db.Get(&n,
		"SELECT COUNT(*) FROM sent_reminder WHERE email = ? AND task = ? AND day = ?",
		email, task, day.Format(roster.DateLayout),
	)
	if err != nil {
		return false, errors.Wrap(err, "querying sent log")
	}
	return n > 0, nil
}

func (repo sentLogRepository) MarkSent(email, task string, day time.Time) error {
	_, err := repo.db.Exec(
		"INSERT OR IGNORE INTO sent_reminder (email, task, day) VALUES (?, ?, ?)",
		email, task, day.Format(roster.DateLayout),
	)
	return errors.Wrap(err, "recording sent reminder")
}
