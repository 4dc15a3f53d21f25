package utils

import (
	"strings"

	"github.com/samber/lo"
)

// SplitList splits a comma separated list, dropping blanks. A list without
// items is nil.
func SplitList(s string) []string {
	parts := lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
	if len(parts) == 0 {
		return nil
	}
	return parts
}
