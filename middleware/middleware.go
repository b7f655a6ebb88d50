package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
)

//ValidateRequestBody is a middleware function to validate request Body

func ValidateRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Ensure that the request method is POST
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Ensure that the Content-Type header is application/json; clients
		// commonly append a charset parameter, so parse rather than compare.
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, "Content-Type header must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		// Read the request body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Error reading request body", http.StatusInternalServerError)
			return
		}

		// Check if the request body is empty
		if len(body) == 0 {
			http.Error(w, "Request body is empty", http.StatusBadRequest)
			return
		}

		// The body must at least be a JSON object; field-level checks belong
		// to the contact pipeline.
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(body, &probe); err != nil {
			http.Error(w, "Error decoding JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		// Create a new request with the restored body
		r.Body = io.NopCloser(bytes.NewReader(body))

		// Call the next handler in the chain
		next.ServeHTTP(w, r)
	})
}
