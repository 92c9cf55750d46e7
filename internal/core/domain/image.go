package domain

import "strings"

// ImageReference identifies a built image by repository name and an optional
// tag.
type ImageReference struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag,omitempty"`
}

// ParseImageReference splits a "name[:tag]" string into an ImageReference.
func ParseImageReference(s string) ImageReference {
	if i := strings.LastIndex(s, ":"); i > 0 {
		return ImageReference{Repository: s[:i], Tag: s[i+1:]}
	}
	return ImageReference{Repository: s}
}

func (r ImageReference) String() string {
	if r.Tag == "" {
		return r.Repository
	}
	return r.Repository + ":" + r.Tag
}

// RunCommand is an ordered, shell-escaped argument list for a container
// runtime invocation.
type RunCommand []string

func (c RunCommand) String() string {
	return strings.Join(c, " ")
}
