package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // Pool settings
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}

// schemaStatements create the two application tables and their
// supporting indexes.  The UNIQUE constraint on start_time is what
// makes republishing availability idempotent, and the two bookings
// indexes back the visitor code lookup and uniqueness check.
var schemaStatements = []string{
    `CREATE TABLE IF NOT EXISTS availability_slots (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        start_time DATETIME NOT NULL,
        end_time DATETIME NOT NULL,
        is_booked BOOLEAN NOT NULL DEFAULT FALSE,
        PRIMARY KEY (id),
        UNIQUE KEY uq_slot_start_time (start_time)
    )`,
    `CREATE TABLE IF NOT EXISTS bookings (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        visitor_booking_code VARCHAR(16) NOT NULL,
        visitor_friend_code VARCHAR(64) NOT NULL,
        visitor_message TEXT NULL,
        booking_start_time DATETIME NOT NULL,
        booking_end_time DATETIME NOT NULL,
        booking_timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        KEY idx_visitor_friend_code (visitor_friend_code),
        KEY idx_visitor_booking_code (visitor_booking_code)
    )`,
}

// EnsureSchema creates the application tables when they do not exist.
// It runs at startup before the server begins accepting requests.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schemaStatements {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("ensure schema: %w", err)
        }
    }
    return nil
}
