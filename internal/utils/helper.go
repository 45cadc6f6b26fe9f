package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

func StrPtr(s string) *string {
	return &s
}

func UintPtr(u uint) *uint {
	return &u
}

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TrimPtr trims *s and returns "" for nil.
func TrimPtr(s *string) string {
	return strings.TrimSpace(PtrString(s))
}

func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Paginate normalises limit/page into limit/offset. Limit is capped at 100.
func Paginate(limit, page int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
