package offerdoc

import (
	"net/url"
	"strconv"
	"strings"
)

// Kind identifies the type of offer page.
type Kind string

// Offer kinds.
const (
	KindIPO Kind = "ipo"
	KindNCD Kind = "ncd"
)

// ParseKind validates a user-supplied kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindIPO, KindNCD:
		return k, nil
	}
	return "", Errorf(EINVALID, "unknown kind %q", s)
}

// PathSegment returns the URL path segment that introduces pages of
// this kind on the source site.
func (k Kind) PathSegment() string {
	if k == KindNCD {
		return "bond"
	}
	return string(k)
}

// Identity is the part of a record derived from its source URL.
type Identity struct {
	// ID is the numeric final path segment, or zero when the final
	// segment is not numeric.
	ID   int
	Slug string
}

// ParseIdentity extracts the identity of an offer page from a URL of the
// form https://host/<segment>/<slug>/<id>/. IPO pages require both the
// slug and a numeric id; NCD pages only require the slug.
func ParseIdentity(rawURL string, kind Kind) (Identity, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Path == "" {
		return Identity{}, Errorf(EINVALID, "malformed %s url %q", kind, rawURL)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	var id Identity
	for i, s := range segments {
		if strings.EqualFold(s, kind.PathSegment()) && i+1 < len(segments) {
			id.Slug = segments[i+1]
			break
		}
	}
	if len(segments) > 0 {
		if n, err := strconv.Atoi(segments[len(segments)-1]); err == nil && n > 0 {
			id.ID = n
		}
	}

	if id.Slug == "" {
		return Identity{}, Errorf(EINVALID, "%s url %q has no slug", kind, rawURL)
	}
	if kind == KindIPO && id.ID == 0 {
		return Identity{}, Errorf(EINVALID, "ipo url %q has no numeric id", rawURL)
	}
	return id, nil
}
