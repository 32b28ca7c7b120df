// SPDX-License-Identifier: MPL-2.0

package container

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var sizeRegex = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s?([kmg]?b)?$`)

// TryParseSize normalizes a size to whole bytes. It accepts numbers and
// strings such as "1024", "10.2kB" or "2.777 GB" (1024-based units). The
// value is multiplied by the unit before it is rounded, so fractional units
// round exactly once. "n/a", empty strings and unrecognized shapes yield nil.
func TryParseSize(value any) *int64 {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return sizePtr(float64(v))
	case int64:
		return sizePtr(float64(v))
	case float64:
		return sizePtr(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return sizePtr(f)
	case string:
		return parseSizeString(v)
	default:
		return nil
	}
}

func parseSizeString(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return nil
	}
	m := sizeRegex.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "kb":
		f *= 1024
	case "mb":
		f *= 1024 * 1024
	case "gb":
		f *= 1024 * 1024 * 1024
	}
	return sizePtr(f)
}

func sizePtr(f float64) *int64 {
	n := int64(math.Round(f))
	return &n
}
