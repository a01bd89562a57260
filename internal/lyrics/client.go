// Package lyrics looks up song lyrics from a lyrics.ovh compatible API.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.lyrics.ovh/v1"
	DefaultTimeout = 10 * time.Second

	// NotFoundPlaceholder is returned when a 200 response carries no lyrics field.
	NotFoundPlaceholder = "Lyrics not found in the returned data."

	maxBodySize = 2 << 20
)

var (
	ErrEmptyArtist = errors.New("artist is required")
	ErrEmptyTitle  = errors.New("title is required")
	ErrTimeout     = errors.New("request timeout")
)

// StatusError is returned for any non-200 response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lyrics api status %d", e.Code)
}

// NotFound reports whether the API had no lyrics for the song.
func (e *StatusError) NotFound() bool { return e.Code == http.StatusNotFound }

// ConnectionError wraps a transport failure (DNS, refused, reset).
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "connection error: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// DecodeError reports a 200 response whose body is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "invalid json in lyrics response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Result is a successful lookup.
type Result struct {
	Artist string
	Title  string
	Lyrics string
}

// Empty reports whether the lyrics text is blank.
func (r *Result) Empty() bool { return strings.TrimSpace(r.Lyrics) == "" }

// Filename is the suggested download name.
func (r *Result) Filename() string {
	name := strings.TrimSpace(r.Artist + " - " + r.Title)
	name = strings.Map(func(c rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, c) {
			return '_'
		}
		return c
	}, name)
	return name + ".txt"
}

// Client calls the lyrics API. The zero value is not usable; use NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Lyrics *string `json:"lyrics"`
	Error  string  `json:"error"`
}

// Search fetches the lyrics for artist and title. It issues a single GET
// and never retries.
func (c *Client) Search(ctx context.Context, artist, title string) (*Result, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" {
		return nil, ErrEmptyArtist
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}

	endpoint := c.baseURL + "/" + url.PathEscape(artist) + "/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classify(err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{Err: err}
	}

	res := &Result{Artist: artist, Title: title, Lyrics: NotFoundPlaceholder}
	if payload.Lyrics != nil {
		res.Lyrics = *payload.Lyrics
	}
	return res, nil
}

// classify maps a transport error to ErrTimeout or *ConnectionError.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return &ConnectionError{Err: err}
}
