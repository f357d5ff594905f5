package widget

import "strings"

// Get resolves a configuration value: exact key match first, then a
// case-insensitive match, then the declared default. Form field names are
// user input, so callers cannot rely on canonical casing.
func (s Settings) Get(key, def string) string {
	if len(s) == 0 {
		return def
	}
	if v, ok := s[key]; ok {
		return v
	}
	for k, v := range s {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return def
}
