package util

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strconv"
	"strings"
)

// Fingerprint returns a CRC32 fingerprint of the given parts. Parts are
// separated so that ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...string) string {
	h := crc32.NewIEEE()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

// FingerprintValue renders a decoded JSON value canonically (map keys
// sorted) and fingerprints it
func FingerprintValue(v interface{}) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return Fingerprint(b.String())
}

func writeCanonical(b *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%q:", k)
			writeCanonical(b, val[k])
		}
		b.WriteByte('}')
	case []interface{}:
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, item)
		}
		b.WriteByte(']')
	case string:
		fmt.Fprintf(b, "%q", val)
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case nil:
		b.WriteString("null")
	default:
		fmt.Fprintf(b, "%v", val)
	}
}
