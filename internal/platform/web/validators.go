package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// ParseQueryInt32 reads an optional int32 query parameter, falling back to def when absent,
// and checks it against a validator tag such as "gte=0" or "min=1,max=100".
func ParseQueryInt32(w http.ResponseWriter, r *http.Request, logger *slog.Logger, v *validator.Validate, key string, def int32, tag string) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err == nil {
		err = v.Var(intValue, tag)
	}
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}

// ParsePathInt reads an int path value and checks it against a validator tag.
func ParsePathInt(w http.ResponseWriter, logger *slog.Logger, v *validator.Validate, key, value, tag string) (int, bool) {
	intValue, err := strconv.Atoi(value)
	if err == nil {
		err = v.Var(intValue, tag)
	}
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", key, value))
		return 0, false
	}
	return intValue, true
}
