package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/societary"
)

// Registry input paths.
const (
	RegistryUpload = "upload"
	RegistryPaste  = "paste"
	RegistrySample = "sample"
)

// RegistryFilename is the download name of the modified record.
const RegistryFilename = "registry_record_modified.json"

var (
	ErrEmptyRegistryText = errors.New("registry text is required")
	ErrRegistryNotSaved  = errors.New("registry changes are not saved")
	ErrUnknownSource     = errors.New("unknown registry source")
)

// LoadRegistry parses a record from an uploaded file, pasted text or the
// built-in sample and makes it the session's working record. Any previous
// record and saved export are discarded.
func (s *Service) LoadRegistry(ctx context.Context, sess *session.Session, source string, data []byte) (*session.RegistryState, error) {
	var (
		rec *societary.Record
		err error
	)

	switch source {
	case RegistrySample:
		rec = societary.Sample()
	case RegistryUpload:
		if err := s.checkFile(data); err != nil {
			return nil, err
		}
		rec, err = societary.Parse(data)
	case RegistryPaste:
		if strings.TrimSpace(string(data)) == "" {
			return nil, ErrEmptyRegistryText
		}
		rec, err = societary.Parse(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	state := &session.RegistryState{
		Original: rec,
		Views:    societary.Flatten(rec),
		Source:   source,
	}
	sess.Registry = state

	logging.WithFields(ctx, "source", source).Info("registry loaded",
		"partners", len(rec.Partners),
		"incoming", len(rec.NewPartners),
		"outgoing", len(rec.LeavingPartners),
	)
	return state, nil
}

// SaveRegistry merges the edited views onto the original record and stores
// the exported JSON. Nil views keep the current ones.
func (s *Service) SaveRegistry(ctx context.Context, sess *session.Session, views societary.Views) ([]byte, error) {
	state := sess.Registry
	if state == nil {
		return nil, ErrNoRegistry
	}

	if views.Company == nil {
		views.Company = state.Views.Company
	}
	if views.Partners == nil {
		views.Partners = state.Views.Partners
	}
	if views.Incoming == nil {
		views.Incoming = state.Views.Incoming
	}
	if views.Outgoing == nil {
		views.Outgoing = state.Views.Outgoing
	}

	merged, err := societary.Merge(state.Original, views)
	if err != nil {
		return nil, fmt.Errorf("merge registry: %w", err)
	}
	out, err := societary.Export(merged)
	if err != nil {
		return nil, fmt.Errorf("export registry: %w", err)
	}

	state.Views = views
	state.Modified = out

	logging.FromContext(ctx).Info("registry saved", "bytes", len(out))
	return out, nil
}

// ResetRegistry clears the registry editor state of the session.
func (s *Service) ResetRegistry(ctx context.Context, sess *session.Session) {
	sess.ResetRegistry()
	logging.FromContext(ctx).Info("registry reset")
}

// RegistryDownload returns the last saved export.
func (s *Service) RegistryDownload(sess *session.Session) (*Download, error) {
	if sess.Registry == nil {
		return nil, ErrNoRegistry
	}
	if sess.Registry.Modified == nil {
		return nil, ErrRegistryNotSaved
	}
	return &Download{
		Filename:    RegistryFilename,
		ContentType: "application/json",
		Data:        sess.Registry.Modified,
	}, nil
}
