// Package json wraps request decoding and response encoding with the
// defaults every handler wants: a body size cap, strict field checking,
// and safe response headers.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into dst. Unknown fields, trailing
// data, and bodies over 1 MiB are rejected.
func DecodeJSON(_ context.Context, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("trailing data after json body")
	}
	return nil
}
