package api

import (
	"time"

	"github.com/safevideo/safetext/pkg/models"
)

type TextRequest struct {
	Text string `json:"text"`
}

type LanguageRequest struct {
	Language string `json:"language"`
}

type LanguageResponse struct {
	Language string `json:"language"`
}

type CheckResponse struct {
	Language string         `json:"language"`
	Matches  []models.Match `json:"matches"`
}

type CensorResponse struct {
	Language     string `json:"language"`
	CensoredText string `json:"censored_text"`
}

type BadWordsResponse struct {
	Language string   `json:"language"`
	BadWords []string `json:"bad_words"`
}

type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Duration   float64   `json:"duration_sec"`
	Size       int       `json:"size_bytes"`
	Service    string    `json:"service"`
}
