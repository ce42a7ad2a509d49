package scraper

import (
	"net/url"
	"strings"
)

// excludedAssetHints flags URLs of common non-product assets: UI chrome,
// tracking pixels and formats product shots never ship in.
var excludedAssetHints = []string{
	"logo",
	"icon",
	"sprite",
	"placeholder",
	"loading",
	"pixel",
	"tracking",
	"blank",
	"1x1",
	"svg",
	"gif",
}

// selectProductImages aggregates src, srcset and data-src values from the
// collected elements into a deduplicated, filtered, order-preserving list
// truncated to limit entries.
func selectProductImages(candidates []imageCandidate, limit int) []string {
	seen := make(map[string]struct{})
	picked := []string{}

	consider := func(raw string) {
		u := strings.TrimSpace(raw)
		if !isAbsoluteHTTPURL(u) {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		if isExcludedAsset(u) {
			return
		}
		picked = append(picked, u)
	}

	for _, c := range candidates {
		consider(c.Src)
		for _, u := range parseSrcset(c.Srcset) {
			consider(u)
		}
		consider(c.DataSrc)
	}

	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}

// parseSrcset splits a srcset attribute into its URL tokens, dropping the
// width/density descriptors.
func parseSrcset(srcset string) []string {
	if strings.TrimSpace(srcset) == "" {
		return nil
	}
	parts := strings.Split(srcset, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

func isAbsoluteHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isExcludedAsset(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, hint := range excludedAssetHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
