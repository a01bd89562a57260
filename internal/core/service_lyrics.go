package core

import (
	"context"

	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/lyrics"
	"github.com/JonMunkholm/toolbox/internal/session"
)

// SearchLyrics looks up lyrics and keeps the result in the session for
// display and download. A failed search clears the previous result.
func (s *Service) SearchLyrics(ctx context.Context, sess *session.Session, artist, title string) (*lyrics.Result, error) {
	res, err := s.lyrics.Search(ctx, artist, title)
	if err != nil {
		sess.Lyrics = nil
		return nil, err
	}

	sess.Lyrics = res
	logging.WithFields(ctx, "artist", res.Artist, "title", res.Title).Info("lyrics found",
		"chars", len(res.Lyrics),
		"empty", res.Empty(),
	)
	return res, nil
}

// LyricsDownload returns the last found lyrics as a text file.
func (s *Service) LyricsDownload(sess *session.Session) (*Download, error) {
	if sess.Lyrics == nil {
		return nil, ErrNoLyrics
	}
	return &Download{
		Filename:    sess.Lyrics.Filename(),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(sess.Lyrics.Lyrics),
	}, nil
}
