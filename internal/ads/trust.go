package ads

import "net/url"

// TrustPolicy is the host allowlist gating which URLs the pipeline may fetch
// server-side. It is the sole defense against the pipeline becoming an
// arbitrary fetch proxy, kept independent of fetch logic so the boundary is
// reviewable in isolation.
type TrustPolicy struct {
	// AssetHost is the canonical asset-store host; already-rehomed images
	// are trusted and passed through without re-upload.
	AssetHost string
	// TrustedSuffix is the upstream CDN domain suffix images may be
	// fetched from.
	TrustedSuffix string
}

// IsTrustedSource reports whether the URL's host is fetchable. Untrusted
// hosts are dropped silently, never fetched.
func (p TrustPolicy) IsTrustedSource(u *url.URL) bool {
	host := u.Hostname()
	if host == "" {
		return false
	}
	return host == p.AssetHost || hasDomainSuffix(host, p.TrustedSuffix)
}

func hasDomainSuffix(host, suffix string) bool {
	if suffix == "" {
		return false
	}
	if host == suffix {
		return true
	}
	return len(host) > len(suffix) && host[len(host)-len(suffix)-1] == '.' &&
		host[len(host)-len(suffix):] == suffix
}

// resolveImageURL unwraps the tracking-redirect indirection some upstream
// URLs carry, exposing the real target in the "url" query parameter. When
// the parameter is absent or unparsable the original URL is used unchanged;
// resolution never fails the pipeline.
func resolveImageURL(u *url.URL) *url.URL {
	raw := u.Query().Get("url")
	if raw == "" {
		return u
	}
	real, err := url.Parse(raw)
	if err != nil {
		return u
	}
	return real
}
