package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// preferred top-level fields, checked in order
var messageFields = []string{"detail", "message", "error", "non_field_errors"}

// ErrorMessage extracts a displayable message from an error body. A single
// structured field wins; otherwise field-level errors are flattened into
// one line ("email: Enter a valid email.; password: This field is required.").
// Unparseable or empty bodies yield a generic message with the status.
func ErrorMessage(status int, body []byte) string {
	generic := fmt.Sprintf("request failed with status %d", status)

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return generic
	}

	switch v := payload.(type) {
	case map[string]any:
		for _, f := range messageFields {
			if msg := flatten(v[f]); msg != "" {
				return msg
			}
		}
		if msg := flattenFields(v); msg != "" {
			return msg
		}
	default:
		if msg := flatten(v); msg != "" {
			return msg
		}
	}
	return generic
}

func flattenFields(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if msg := flatten(m[k]); msg != "" {
			parts = append(parts, k+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

func flatten(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		return flattenFields(x)
	default:
		return ""
	}
}
