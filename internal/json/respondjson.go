package json

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// RespondJSON writes v as a JSON response with the given status code.
// The body is encoded fully before any bytes are written so an encode
// failure never produces a half-written response.
func RespondJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
