// Package moderation is a client for an external text moderation API, used
// as a reference checker for validating local detection results.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrExternalService marks connectivity or auth failures of the moderation
// API. Matching keeps working without the service; only validation calls
// fail.
var ErrExternalService = errors.New("moderation service unavailable")

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: defaultTimeout},
	}
}

// Result is the moderation API's verdict on a text.
type Result struct {
	BadWords    []string
	CleanedText string
}

type checkRequest struct {
	Text       string   `json:"text"`
	Exclude    []string `json:"exclude,omitempty"`
	CensorChar string   `json:"censor_character,omitempty"`
}

type checkResponse struct {
	BadWordsList []struct {
		Word string `json:"word"`
	} `json:"bad_words_list"`
	CensoredContent string `json:"censored_content"`
}

// Check submits text to the moderation API and returns its bad-word list and
// cleaned text. exclude and censorChar are optional. Transport, auth and
// decode failures are wrapped in ErrExternalService, never swallowed.
func (c *Client) Check(ctx context.Context, text string, exclude []string, censorChar string) (*Result, error) {
	body, err := json.Marshal(checkRequest{
		Text:       text,
		Exclude:    exclude,
		CensorChar: censorChar,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var cr checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrExternalService, err)
	}

	result := Result{CleanedText: cr.CensoredContent}
	for _, bw := range cr.BadWordsList {
		result.BadWords = append(result.BadWords, bw.Word)
	}
	log.Debugf("[moderation] checked %d chars, %d bad words reported", len(text), len(result.BadWords))

	return &result, nil
}
