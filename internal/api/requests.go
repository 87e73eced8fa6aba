// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/okizeme/catalogus/internal/catalog"
)

// maxRequestBody caps request payload size. Filter and favorite bodies
// are small; anything larger is hostile.
const maxRequestBody = 64 << 10

// QueryRequest is the payload of a session query update.
type QueryRequest struct {
	Text         string   `json:"text" validate:"max=200"`
	Maker        string   `json:"maker" validate:"max=120"`
	Series       string   `json:"series" validate:"max=120"`
	RequireImage bool     `json:"require_image"`
	RequireVideo bool     `json:"require_video"`
	SelectedTags []string `json:"selected_tags" validate:"max=24,dive,min=1,max=60"`
}

// Query converts the validated payload to the canonical filter state.
func (qr QueryRequest) Query() catalog.Query {
	return catalog.Query{
		Text:         qr.Text,
		Maker:        qr.Maker,
		Series:       qr.Series,
		RequireImage: qr.RequireImage,
		RequireVideo: qr.RequireVideo,
		SelectedTags: qr.SelectedTags,
	}
}

// FavoriteRequest is the feature snapshot stored when an entry is
// favorited. The client captures it from the entry being favorited.
type FavoriteRequest struct {
	Tags       []string `json:"tags" validate:"max=64,dive,min=1,max=60"`
	Performers []string `json:"performers" validate:"max=64,dive,min=1,max=120"`
	Maker      string   `json:"maker" validate:"max=120"`
	Series     string   `json:"series" validate:"max=120"`
	Label      string   `json:"label" validate:"max=120"`
}

// Features converts the validated payload to the stored snapshot. The
// snapshot is taken through the canonical feature extractor so the
// stored shape cannot drift from what the profile builder expects, and
// so the stored slices are decoupled from the request buffers.
func (fr FavoriteRequest) Features() catalog.Features {
	return catalog.FeaturesOf(catalog.Entry{
		Tags:       fr.Tags,
		Performers: fr.Performers,
		Maker:      fr.Maker,
		Series:     fr.Series,
	}, fr.Label)
}

// decodeAndValidate reads a JSON body into dst and runs struct
// validation. Returns a client-facing error message on failure.
func decodeAndValidate(r *http.Request, validate *validator.Validate, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validationDetails flattens validator errors into field/tag pairs for
// the error response body.
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"tag":   fe.Tag(),
		})
	}
	return details
}
