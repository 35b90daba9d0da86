package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"
)

// maxBodyBytes bounds request bodies; every inbound payload is a handful of ids.
const maxBodyBytes = 64 << 10

// requestBody decodes the JSON object body of POST, PUT and PATCH requests.
// Absent, oversized or malformed bodies yield an empty object.
func requestBody(r *http.Request) map[string]any {
	body := map[string]any{}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return body
	}
	if r.Body == nil {
		return body
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// splitList splits a comma-separated parameter, dropping blank items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// listField returns body[key] as ids when it is an array.
func listField(body map[string]any, key string) ([]string, bool) {
	items, ok := body[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if id := jsonutil.ID(item); id != "" {
			out = append(out, id)
		}
	}
	return out, true
}

// firstQuery returns the first non-blank query parameter among keys.
func firstQuery(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// participantParam reads the participant id from the body, then the query string.
func participantParam(r *http.Request, body map[string]any) string {
	if id := jsonutil.FirstID(body, "participantId", "id_participant"); id != "" {
		return id
	}
	return firstQuery(r, "participantId", "id_participant")
}
