package entity

import "strings"

// RemoteResource is a single file to fetch over HTTP(S).
type RemoteResource struct {
	URL string
}

// FileName is the local name of the resource, taken from the last path
// segment of the URL.
func (r RemoteResource) FileName() string {
	if idx := strings.LastIndex(r.URL, "/"); idx >= 0 {
		return r.URL[idx+1:]
	}

	return r.URL
}
