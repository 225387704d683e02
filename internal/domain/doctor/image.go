package doctor

import (
	"net/url"
	"strings"
)

// ImageResolver picks the portrait URL for a doctor: the stored image, then a
// shipped portrait matched by exact display name, then a generated avatar.
type ImageResolver struct {
	portraits       map[string]string
	mediaPrefix     string
	placeholderBase string
}

// NewImageResolver returns a resolver that serves shipped portraits under
// mediaPrefix and generates avatars from placeholderBase.
func NewImageResolver(portraits map[string]string, mediaPrefix, placeholderBase string) *ImageResolver {
	return &ImageResolver{
		portraits:       portraits,
		mediaPrefix:     strings.TrimRight(mediaPrefix, "/") + "/",
		placeholderBase: placeholderBase,
	}
}

// Resolve is pure: it never touches the network or the filesystem.
func (r *ImageResolver) Resolve(d Doctor) string {
	if img := strings.TrimSpace(d.Image); img != "" {
		return img
	}
	if file, ok := r.portraits[d.Name]; ok && file != "" {
		return r.mediaPrefix + url.PathEscape(file)
	}
	return r.Placeholder(d.Name)
}

// Placeholder returns the generated avatar URL for name. Pages also use it as
// the replacement when any portrait fails to load.
func (r *ImageResolver) Placeholder(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Doctor"
	}
	return r.placeholderBase + "?background=random&color=fff&name=" + encodeComponent(name)
}

// PortraitFile reports whether file is one of the shipped portraits.
func (r *ImageResolver) PortraitFile(file string) bool {
	for _, f := range r.portraits {
		if f == file {
			return true
		}
	}
	return false
}

// encodeComponent escapes s for a query value with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
