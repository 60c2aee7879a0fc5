package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// maxKeyLength is the longest key stored verbatim. Anything longer collapses
// to a namespace-prefixed digest so backend key sizes stay bounded.
const maxKeyLength = 250

// BuildKey derives the canonical cache key for a namespace plus call
// arguments. Positional args join in order, keyword args follow sorted by
// name, so equivalent calls always map to the same key:
//
//	BuildKey("ai_responses", []string{"gpt", "42"}, map[string]string{"user": "a"})
//	=> "ai_responses:gpt:42:user=a"
//
// Keys longer than 250 characters are replaced by
// "<namespace>:hash:<md5 hex of the full key>". MD5 keeps the key layout
// compatible with existing deployments; it is not a security boundary.
func BuildKey(namespace string, args []string, kwargs map[string]string) string {
	parts := make([]string, 0, 1+len(args)+len(kwargs))
	parts = append(parts, namespace)
	parts = append(parts, args...)
	if len(kwargs) > 0 {
		names := make([]string, 0, len(kwargs))
		for name := range kwargs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, name+"="+kwargs[name])
		}
	}

	key := strings.Join(parts, ":")
	if len(key) > maxKeyLength {
		sum := md5.Sum([]byte(key))
		return namespace + ":hash:" + hex.EncodeToString(sum[:])
	}
	return key
}
