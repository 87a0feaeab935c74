package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog store: open: %w", err)
	}

	// Enable WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog store: wal: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL,
			price       REAL NOT NULL,
			platform    TEXT NOT NULL,
			is_featured INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
		CREATE INDEX IF NOT EXISTS idx_products_platform ON products(platform);
	`)
	if err != nil {
		return fmt.Errorf("catalog store: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListAll() ([]protocol.ProductRecord, error) {
	return s.queryProducts(`SELECT id, name, category, price, platform, is_featured FROM products ORDER BY name`)
}

func (s *SQLiteStore) FindByNameSubstring(text string) ([]protocol.ProductRecord, error) {
	return s.queryProducts(
		`SELECT id, name, category, price, platform, is_featured FROM products WHERE name LIKE ? ORDER BY name`,
		likePattern(text))
}

func (s *SQLiteStore) FindByCategory(category string) ([]protocol.ProductRecord, error) {
	return s.queryProducts(
		`SELECT id, name, category, price, platform, is_featured FROM products WHERE category = ? ORDER BY name`,
		category)
}

func (s *SQLiteStore) FindByPlatform(platform string) ([]protocol.ProductRecord, error) {
	return s.queryProducts(
		`SELECT id, name, category, price, platform, is_featured FROM products WHERE platform = ? ORDER BY name`,
		platform)
}

func (s *SQLiteStore) FindByPriceRange(min, max float64) ([]protocol.ProductRecord, error) {
	return s.queryProducts(
		`SELECT id, name, category, price, platform, is_featured FROM products WHERE price >= ? AND price <= ? ORDER BY price`,
		min, max)
}

func (s *SQLiteStore) Create(name, category string, price float64, platform string, featured bool) (*protocol.ProductRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Reason: "product name is required"}
	}
	if price < 0 {
		return nil, &ValidationError{Reason: "price must be non-negative"}
	}

	res, err := s.db.Exec(
		`INSERT INTO products (name, category, price, platform, is_featured) VALUES (?, ?, ?, ?, ?)`,
		name, category, price, platform, boolToInt(featured))
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("failed to add product: %v", err)}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("catalog store: last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT id, name, category, price, platform, is_featured FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("catalog store: read back %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) ListFeatured() ([]protocol.ProductRecord, error) {
	return s.queryProducts(`SELECT id, name, category, price, platform, is_featured FROM products WHERE is_featured = 1 ORDER BY name`)
}

func (s *SQLiteStore) FindSimilar(baseName string) ([]protocol.ProductRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, name, category, price, platform, is_featured FROM products WHERE name LIKE ? LIMIT 1`,
		likePattern(baseName))

	base, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return []protocol.ProductRecord{}, nil
		}
		return nil, fmt.Errorf("catalog store: find similar base: %w", err)
	}

	return s.queryProducts(
		`SELECT id, name, category, price, platform, is_featured FROM products
		 WHERE (category = ? OR platform = ?) AND id != ?
		 ORDER BY name LIMIT 10`,
		base.Category, base.Platform, base.ID)
}

// --- helpers ---

func (s *SQLiteStore) queryProducts(query string, args ...any) ([]protocol.ProductRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog store: query: %w", err)
	}
	defer rows.Close()

	// Empty result is an empty slice, not nil: it serializes as [].
	products := []protocol.ProductRecord{}
	for rows.Next() {
		var p protocol.ProductRecord
		var featured int
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Platform, &featured); err != nil {
			return nil, fmt.Errorf("catalog store: scan: %w", err)
		}
		p.IsFeatured = featured != 0
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row *sql.Row) (*protocol.ProductRecord, error) {
	var p protocol.ProductRecord
	var featured int
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Platform, &featured); err != nil {
		return nil, err
	}
	p.IsFeatured = featured != 0
	return &p, nil
}

func likePattern(s string) string {
	return "%" + s + "%"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
