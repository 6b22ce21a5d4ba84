package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var DB *sql.DB

// StoredAnalysis is one persisted letter analysis.
type StoredAnalysis struct {
	ID             int       `json:"id"`
	FileName       string    `json:"file_name"`
	Summary        string    `json:"summary"`
	Highlights     []string  `json:"highlights"`
	WhatToDo       []string  `json:"what_to_do"`
	ImportantDates []string  `json:"important_dates"`
	EmailPrompt    string    `json:"email_prompt,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// InitDB initializes the PostgreSQL database connection
func InitDB(logger *zap.Logger) error {
	host := MustGetEnv("POSTGRES_HOST")
	port := GetEnvOrDefault("POSTGRES_PORT", "5432")
	user := MustGetEnv("POSTGRES_USER")
	password := MustGetEnv("POSTGRES_PASSWORD")
	dbname := MustGetEnv("POSTGRES_DB")
	sslmode := GetEnvOrDefault("POSTGRES_SSLMODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully")

	return nil
}

// CreateSchema creates the necessary database tables if they don't exist
func CreateSchema(logger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database connection is nil; call InitDB first")
	}

	ctx := context.Background()

	_, err := DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS letter_analyses (
            id SERIAL PRIMARY KEY,
            file_name VARCHAR(255) NOT NULL,
            summary TEXT NOT NULL,
            highlights TEXT[] NOT NULL DEFAULT '{}',
            what_to_do TEXT[] NOT NULL DEFAULT '{}',
            important_dates TEXT[] NOT NULL DEFAULT '{}',
            email_prompt TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create letter_analyses table: %w", err)
	}

	_, err = DB.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_letter_analyses_created_at ON letter_analyses(created_at)
    `)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info("Database schema created successfully")
	return nil
}

// SaveAnalysis stores one analysis result and returns its row id.
func SaveAnalysis(ctx context.Context, a *StoredAnalysis) (int, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is nil; call InitDB first")
	}

	var emailPrompt sql.NullString
	if a.EmailPrompt != "" {
		emailPrompt = sql.NullString{String: a.EmailPrompt, Valid: true}
	}

	var id int
	err := DB.QueryRowContext(ctx, `
        INSERT INTO letter_analyses (file_name, summary, highlights, what_to_do, important_dates, email_prompt)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, a.FileName, a.Summary, pq.Array(a.Highlights), pq.Array(a.WhatToDo), pq.Array(a.ImportantDates), emailPrompt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}
	return id, nil
}

// ListAnalyses returns the most recent stored analyses, newest first.
func ListAnalyses(ctx context.Context, limit int) ([]StoredAnalysis, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is nil; call InitDB first")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := DB.QueryContext(ctx, `
        SELECT id, file_name, summary, highlights, what_to_do, important_dates, email_prompt, created_at
        FROM letter_analyses
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	results := make([]StoredAnalysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}
	return results, rows.Err()
}

// GetAnalysis returns one stored analysis by id, or sql.ErrNoRows.
func GetAnalysis(ctx context.Context, id int) (*StoredAnalysis, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is nil; call InitDB first")
	}

	row := DB.QueryRowContext(ctx, `
        SELECT id, file_name, summary, highlights, what_to_do, important_dates, email_prompt, created_at
        FROM letter_analyses
        WHERE id = $1
    `, id)
	return scanAnalysis(row.Scan)
}

func scanAnalysis(scan func(...interface{}) error) (*StoredAnalysis, error) {
	var a StoredAnalysis
	var emailPrompt sql.NullString
	err := scan(&a.ID, &a.FileName, &a.Summary,
		pq.Array(&a.Highlights), pq.Array(&a.WhatToDo), pq.Array(&a.ImportantDates),
		&emailPrompt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if emailPrompt.Valid {
		a.EmailPrompt = emailPrompt.String
	}
	if a.Highlights == nil {
		a.Highlights = []string{}
	}
	if a.WhatToDo == nil {
		a.WhatToDo = []string{}
	}
	if a.ImportantDates == nil {
		a.ImportantDates = []string{}
	}
	return &a, nil
}

// CloseDB closes the database connection
func CloseDB(logger *zap.Logger) error {
	if DB != nil {
		logger.Info("Closing database connection")
		return DB.Close()
	}
	return nil
}
