package database

import (
	"database/sql"
	"time"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

type PgHomeEaseRepository struct {
	conn *sql.DB
}

func NewPgHomeEaseRepository(dsn string) (*PgHomeEaseRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PgHomeEaseRepository{conn: db}, nil
}

func (db *PgHomeEaseRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgHomeEaseRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
