package video

import (
	"context"
	"unicode/utf16"
)

// FallbackIDs is the ordered list the offline resolver picks from.
var FallbackIDs = []string{
	"dQw4w9WgXcQ",
	"kJQP7kiw5Fk",
	"fJ9rUzIMcZQ",
	"9bZkp7q19f0",
	"hT_nvWreIhg",
	"YQHsXMglC9A",
	"JGwWNGJdvx8",
	"CevxZvSJLk8",
	"nfWlot6h_JM",
	"pRpeEdMmmQ0",
}

// Fallback resolves queries without network access. The same query always
// maps to the same identifier.
type Fallback struct{}

func (Fallback) Resolve(_ context.Context, query string) (string, error) {
	return FallbackID(query), nil
}

// FallbackID hashes the UTF-16 code units of query (h = h*31 + c, wrapped to
// 32 bits) and indexes FallbackIDs with |h| mod len.
func FallbackID(query string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(query)) {
		h = h*31 + int32(c)
	}
	idx := int64(h)
	if idx < 0 {
		idx = -idx
	}
	return FallbackIDs[idx%int64(len(FallbackIDs))]
}
