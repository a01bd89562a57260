// Package web provides HTTP handlers for the toolbox.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/logging"
)

// formOverhead is added to the upload limit for the other multipart fields.
const formOverhead = 1 << 20

// multipartMemory is how much of a multipart body is kept in memory.
const multipartMemory = 32 << 20

// limitBody caps the request body at the upload limit.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	if max := s.service.MaxFileSize(); max > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, max+formOverhead)
	}
}

// parseForm parses url-encoded and multipart forms.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	s.limitBody(w, r)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	return bodyError(err)
}

// bodyError translates body read errors into service errors.
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, maxErr.Limit)
	}
	return err
}

// formFile reads an uploaded file. A missing file gives core.ErrNoFile.
func formFile(r *http.Request, field string) (data []byte, filename string, err error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", core.ErrNoFile
	}
	if err != nil {
		return nil, "", bodyError(err)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", bodyError(err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, header.Filename, nil
}

// readBody reads the whole request body.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, bodyError(err)
	}
	return data, nil
}

// formInt parses an integer form field. Blank gives def.
func formInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", name, v)
	}
	return i, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// splitList splits a comma-separated field, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// decodeJSON reads a JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	s.limitBody(w, r)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err := bodyError(err); errors.Is(err, core.ErrFileTooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

var errBadRequest = errors.New("malformed request body")

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// sendDownload writes d as an attachment.
func sendDownload(w http.ResponseWriter, r *http.Request, d *core.Download) {
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Data)))
	if _, err := w.Write(d.Data); err != nil {
		logging.FromContext(r.Context()).Warn("download interrupted", "file", d.Filename, "error", err)
	}
}
