// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/olegiv/parish-go/internal/service"
)

// Multipart fields that carry JSON, booleans or integers. Every other
// field is a plain string.
var (
	jsonFormFields = map[string]bool{"requirements": true, "processSteps": true, "fees": true}
	boolFormFields = map[string]bool{"isActive": true}
	intFormFields  = map[string]bool{"order": true}
)

// imageFormField is the file part accepted by image-bearing endpoints.
const imageFormField = "image"

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// formToJSON turns multipart values into the JSON document the same
// endpoint accepts as a plain body.
func formToJSON(values map[string][]string) ([]byte, error) {
	doc := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		switch {
		case jsonFormFields[key]:
			if v == "" {
				continue
			}
			if !json.Valid([]byte(v)) {
				return nil, fmt.Errorf("field %s is not valid JSON", key)
			}
			doc[key] = json.RawMessage(v)
		case boolFormFields[key]:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("field %s must be true or false", key)
			}
			doc[key] = b
		case intFormFields[key]:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("field %s must be a number", key)
			}
			doc[key] = n
		default:
			doc[key] = v
		}
	}
	return json.Marshal(doc)
}

// decodeEntity reads a JSON or multipart body into dst. For multipart
// bodies an "image" part is stored under folder and its public path is
// returned; upload is empty when no file was sent.
func (h *Handler) decodeEntity(w http.ResponseWriter, r *http.Request, dst any, folder string) (upload string, ok bool) {
	if !isMultipart(r) {
		return "", decodeJSON(w, r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+maxJSONBody)
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart body", nil)
		return "", false
	}

	doc, err := formToJSON(r.MultipartForm.Value)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return "", false
	}
	if err := json.Unmarshal(doc, dst); err != nil {
		WriteBadRequest(w, "Invalid form fields", nil)
		return "", false
	}

	upload, err = h.saveFormImage(r, folder)
	if err != nil {
		h.writeUploadError(w, err)
		return "", false
	}
	return upload, true
}

// saveFormImage stores the "image" part of a parsed multipart request.
func (h *Handler) saveFormImage(r *http.Request, folder string) (string, error) {
	file, _, err := r.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	return h.media.SaveImage(folder, file)
}

func isUploadError(err error) bool {
	for _, target := range []error{
		service.ErrFileTooLarge,
		service.ErrUnsupportedType,
		service.ErrInvalidImage,
		service.ErrImageTooLarge,
		service.ErrEmptyUpload,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	if isUploadError(err) {
		WriteBadRequest(w, err.Error(), map[string]string{imageFormField: err.Error()})
		return
	}
	h.logger.Error("failed to store upload", "error", err)
	WriteInternalError(w, "Failed to store upload")
}

// discardUpload removes a file saved for a request that then failed.
func (h *Handler) discardUpload(upload string) {
	if upload == "" {
		return
	}
	if err := h.media.Remove(upload); err != nil {
		h.logger.Warn("failed to remove orphaned upload", "path", upload, "error", err)
	}
}

// pickImage returns the image to store: a fresh upload, then an explicit
// value from the body, then the current image.
func pickImage(upload, fromBody, current string) string {
	switch {
	case upload != "":
		return upload
	case fromBody != "":
		return fromBody
	default:
		return current
	}
}
