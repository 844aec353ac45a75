// Package models defines the persistence schema for the syntree CLI:
// editing sessions, the revisions they produce, and recorded query runs.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session tracks one CLI invocation working over a set of files.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(20)"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	EndedAt   *time.Time

	// Working context
	SchemaName string `gorm:"type:varchar(100)"`
	RootPath   string `gorm:"type:varchar(512)"`

	// Statistics
	FilesScanned   int `gorm:"default:0"`
	RevisionsCount int `gorm:"default:0"`
	QueriesCount   int `gorm:"default:0"`

	// Client info (tool version, flags)
	ClientInfo datatypes.JSON `gorm:"type:jsonb"`
}

// Revision records one applied edit: the file, the pattern that selected
// the span, and digests of the text before and after.
type Revision struct {
	ID        string `gorm:"primaryKey;type:varchar(20)"`
	SessionID string `gorm:"type:varchar(20);index"`

	// Target
	FilePath   string `gorm:"type:varchar(512);not null"`
	Expression string `gorm:"type:text"` // pattern expression used to select

	// Span of the replaced children, relative to the selected parent
	SpanStart int `gorm:"default:0"`
	SpanCount int `gorm:"default:0"`

	// Content
	Replacement string `gorm:"type:text"`
	Diff        string `gorm:"type:text"`

	// Checksums for validation
	BaseDigest  string `gorm:"type:varchar(64)"` // SHA256 of original text
	AfterDigest string `gorm:"type:varchar(64)"` // SHA256 of edited text

	// Status tracking
	Status    string    `gorm:"type:varchar(20);default:'applied'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	Undone    bool      `gorm:"default:false"`
	UndoneAt  *time.Time
}

// QueryRun records one executed pattern query and its match summary.
type QueryRun struct {
	ID        string `gorm:"primaryKey;type:varchar(20)"`
	SessionID string `gorm:"type:varchar(20);index"`

	FilePath   string `gorm:"type:varchar(512)"`
	Expression string `gorm:"type:text;not null"`

	// Result summary
	MatchCount int            `gorm:"default:0"`
	Matches    datatypes.JSON `gorm:"type:jsonb"` // positions and widths

	DurationMS int64     `gorm:"default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// TableName customizations for cleaner names
func (Session) TableName() string  { return "sessions" }
func (Revision) TableName() string { return "revisions" }
func (QueryRun) TableName() string { return "query_runs" }
