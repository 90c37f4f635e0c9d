package storefront

import (
	"net/url"
	"regexp"
	"strings"
)

var productPathPattern = regexp.MustCompile(`/products/[\w|-]+/([\w|-]+)$`)

// SKUFromPath extracts the SKU from a /products/<url-key>/<sku> path.
func SKUFromPath(path string) string {
	m := productPathPattern.FindStringSubmatch(path)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// OptionsUIDsFromQuery reads the comma separated optionsUIDs parameter.
func OptionsUIDsFromQuery(q url.Values) []string {
	raw := q.Get("optionsUIDs")
	if raw == "" {
		return nil
	}
	var out []string
	for _, uid := range strings.Split(raw, ",") {
		if uid = strings.TrimSpace(uid); uid != "" {
			out = append(out, uid)
		}
	}
	return out
}
