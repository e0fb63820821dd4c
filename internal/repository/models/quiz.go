package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice is a custom type for storing string arrays as JSON in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// Store nil slices as an empty JSON array string "[]"
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // return string, not []byte, for CLOB binds
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{} // DB NULL becomes an empty slice
		return nil
	}

	var bytesToParse []byte

	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 {
		*s = StringSlice{} // empty DB string becomes an empty slice
		return nil
	}
	// A literal "null" stored by earlier writes is treated as an empty slice
	if string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Quiz mirrors a row of the quizzes table.
type Quiz struct {
	ID           string         `db:"id"`            // ULID
	UserID       string         `db:"user_id"`       // Foreign key to users table
	Title        string         `db:"title"`         // Source video title once processing completes
	Description  string         `db:"description"`   // Source video description, CLOB
	VideoURL     string         `db:"video_url"`     // Canonical watch URL
	Status       string         `db:"status"`        // processing / ready / failed
	FailureStage sql.NullString `db:"failure_stage"` // Pipeline stage that failed, NULL unless status is failed
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    sql.NullTime   `db:"deleted_at"`
}

// Question mirrors a row of the questions table.
type Question struct {
	ID        string       `db:"id"`       // ULID
	QuizID    string       `db:"quiz_id"`  // Foreign key to quizzes table
	Position  int          `db:"position"` // 0-based order within the quiz
	Title     string       `db:"title"`
	Options   StringSlice  `db:"options"` // JSON array of four choices, CLOB
	Answer    string       `db:"answer"`  // Verbatim copy of one option
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}
