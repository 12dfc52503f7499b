package pixeldrain

import "strings"

// ParseFileID extracts the bare file identifier from a pixeldrain viewer URL,
// or returns the input unchanged when it is already a bare identifier.
// Resolution is idempotent. href.li-wrapped links are unwrapped and resolved
// again.
func ParseFileID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &Error{Kind: KindInvalidReference, Message: "empty file reference"}
	}

	if idx := strings.Index(s, "href.li/?"); idx >= 0 {
		return ParseFileID(s[idx+len("href.li/?"):])
	}

	for _, marker := range []string{"pixeldrain.com/u/", "pixeldrain.com/f/"} {
		if idx := strings.Index(s, marker); idx >= 0 {
			id := s[idx+len(marker):]
			id = strings.TrimRight(id, "/")
			if i := strings.IndexAny(id, "/?#"); i >= 0 {
				id = id[:i]
			}
			if id == "" {
				return "", &Error{
					Kind:    KindInvalidReference,
					Message: "no file identifier in URL: " + input,
				}
			}
			return id, nil
		}
	}

	// A URL that never names a file is not a reference we can resolve.
	if strings.Contains(s, "://") || strings.Contains(s, "/") {
		return "", &Error{
			Kind:    KindInvalidReference,
			Message: "no file identifier in URL: " + input,
		}
	}

	return s, nil
}
