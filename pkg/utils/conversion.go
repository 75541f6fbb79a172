package utils

import (
	"strconv"
	"strings"
)

// StringToUint64 parses an id from a URL parameter or JSON string field.
// Anything that is not a positive integer yields 0.
func StringToUint64(str string) uint64 {
	val, err := strconv.ParseUint(strings.TrimSpace(str), 10, 64)
	if err != nil {
		return 0
	}
	return val
}

// FormatID renders ids the way the web client expects them ("_id" strings).
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
