package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// OK wraps data in the success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

// Error writes a {"detail": ...} body.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]any{
		"success": false,
		"detail":  detail,
	})
}
