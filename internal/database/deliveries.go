package database

import "database/sql"

// Delivery is a news item that was posted to the channel.
type Delivery struct {
	ID            int64
	Symbol        string
	Fingerprint   string
	Title         string
	URL           string
	Source        *string
	PublishedDate *string
	DeliveredDate string
	DeliveredAt   *string
}

// InsertDelivery records a delivered item. Returns the ID on success, 0 if
// the fingerprint was already archived.
func (db *DB) InsertDelivery(symbol, fingerprint, title, url string, source, publishedDate *string, deliveredDate string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO deliveries (symbol, fingerprint, title, url, source, published_date, delivered_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		symbol, fingerprint, title, url, source, publishedDate, deliveredDate,
	)
	if err != nil {
		// Duplicate fingerprint constraint
		return 0, nil //nolint: nilerr
	}
	return result.LastInsertId()
}

// GetDeliveriesForDate returns all deliveries for a date, grouped by symbol
// in insertion order.
func (db *DB) GetDeliveriesForDate(date string) ([]Delivery, error) {
	rows, err := db.conn.Query(
		`SELECT id, symbol, fingerprint, title, url, source, published_date, delivered_date, delivered_at
		FROM deliveries WHERE delivered_date = ? ORDER BY symbol, id`, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDeliveries(rows)
}

// CountDeliveries returns the total number of archived deliveries.
func (db *DB) CountDeliveries() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM deliveries").Scan(&n)
	return n, err
}

// PurgeThrough deletes archived deliveries up to and including the given
// date. Called at the report boundary after the artifact is delivered.
func (db *DB) PurgeThrough(date string) (int64, error) {
	result, err := db.conn.Exec("DELETE FROM deliveries WHERE delivered_date <= ?", date)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanDeliveries(rows *sql.Rows) ([]Delivery, error) {
	var deliveries []Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.Symbol, &d.Fingerprint, &d.Title, &d.URL,
			&d.Source, &d.PublishedDate, &d.DeliveredDate, &d.DeliveredAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
