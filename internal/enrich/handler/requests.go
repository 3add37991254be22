package handler

import (
	"strings"

	dErrors "civicbridge/pkg/domain-errors"
)

// RepresentativesRequest is the HTTP request body for POST /api/representatives.
type RepresentativesRequest struct {
	Zip          string `json:"zip"`
	ForceRefresh bool   `json:"force_refresh"`
}

// Validate checks the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RepresentativesRequest) Validate() error {
	r.Zip = strings.TrimSpace(r.Zip)
	if r.Zip == "" {
		return dErrors.New(dErrors.CodeValidation, "ZIP code is required")
	}
	return nil
}
