// Package models contains shared data models used across the SlideGenius codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// ThemeAISuggest is the theme sentinel meaning "let the pipeline pick one".
const ThemeAISuggest = "ai-suggest"

// Presentation is both the stored document and the generation job record.
// Created with status pending; the pipeline runner moves it to exactly one
// of complete or failed. A new generation request for the same (user, title)
// reuses the existing row instead of inserting a duplicate, so at most one
// active job exists per title.
type Presentation struct {
	ID              uuid.UUID `db:"id"               json:"id"`
	UserID          uuid.UUID `db:"user_id"          json:"user_id"`
	Title           string    `db:"title"            json:"title"`
	MarkdownInput   string    `db:"markdown_input"   json:"markdown_input"`
	MarkdownContent *string   `db:"markdown_content" json:"markdown_content,omitempty"`
	Theme           string    `db:"theme"            json:"theme"`
	HTMLContent     *string   `db:"html_content"     json:"html_content,omitempty"`
	Status          string    `db:"status"           json:"status"`
	ErrorMessage    *string   `db:"error_message"    json:"error_message,omitempty"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updated_at"`
}
