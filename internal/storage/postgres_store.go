package storage

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/example/rapid-dispatch/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveBooking(b *models.Booking) error {
	_, err := p.db.Exec(`INSERT INTO bookings(id, driver_id, message, created_at) VALUES($1,$2,$3,$4)`,
		b.ID, b.DriverID, b.Message, b.CreatedAt)
	return err
}

func (p *PostgresStore) Close() error { return p.db.Close() }
