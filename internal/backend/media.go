package backend

import (
	"net/url"
	"strings"
)

// AbsolutizeMediaURL rewrites a media reference so the device can reach it.
// Relative paths are resolved against the API origin; absolute URLs pointing
// at a loopback host are re-targeted to the origin, since those were minted
// by a backend that only knows its own bind address.
func AbsolutizeMediaURL(origin, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}

	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		return origin + raw
	}

	source, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if source.Hostname() != "127.0.0.1" && source.Hostname() != "localhost" {
		return source.String()
	}

	target, err := url.Parse(origin)
	if err != nil {
		return raw
	}
	source.Scheme = target.Scheme
	source.Host = target.Host
	return source.String()
}

// normalizeBooking rewrites every media reference in a booking record.
func (c *Client) normalizeBooking(rec BookingRecord) BookingRecord {
	rec.CustomerAvatarURL = AbsolutizeMediaURL(c.origin, rec.CustomerAvatarURL)
	rec.BeforePhotos = c.normalizePhotos(rec.BeforePhotos)
	rec.AfterPhotos = c.normalizePhotos(rec.AfterPhotos)
	return rec
}

func (c *Client) normalizePhotos(photos []string) []string {
	normalized := make([]string, 0, len(photos))
	for _, p := range photos {
		if abs := AbsolutizeMediaURL(c.origin, p); abs != "" {
			normalized = append(normalized, abs)
		}
	}
	return normalized
}

// normalizeUser rewrites the avatar and document references of a user record.
func (c *Client) normalizeUser(user User) User {
	user.AvatarURL = AbsolutizeMediaURL(c.origin, user.AvatarURL)
	if user.Documents != nil {
		docs := make(map[string]string, len(user.Documents))
		for kind, ref := range user.Documents {
			docs[kind] = AbsolutizeMediaURL(c.origin, ref)
		}
		user.Documents = docs
	}
	return user
}
