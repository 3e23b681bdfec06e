package auth

import (
	"net/http"
	"strings"
)

// Policy determines required roles by request.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth/RBAC.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequiredRole resolves the required role for the request. Reads are open
// to viewers; anything that spends Overpass quota or writes files needs an
// operator; cache administration needs an admin.
func (p Policy) RequiredRole(r *http.Request) (Role, bool) {
	if r == nil {
		return "", false
	}
	path := r.URL.Path
	method := r.Method

	switch {
	case path == "/api/v1/osm/cache/clear":
		return RoleAdmin, true
	case path == "/api/v1/osm/buildings":
		// Cache misses hit the public Overpass mirrors.
		return RoleOperator, true
	case path == "/api/v1/generation" ||
		path == "/api/v1/generation/osm" ||
		path == "/api/v1/generation/preview":
		return RoleOperator, true
	case path == "/api/v1/validate" || path == "/api/v1/export":
		return RoleOperator, true
	case path == "/api/v1/export/report.pdf":
		return RoleViewer, true
	case path == "/api/v1/runs":
		return RoleViewer, true
	case path == "/api/v1/zones" ||
		path == "/api/v1/building-types" ||
		path == "/api/v1/export-formats":
		return RoleViewer, true
	case path == "/api/v1/osm/stats" || path == "/api/v1/osm/cache/info":
		return RoleViewer, true
	}

	if strings.HasPrefix(path, "/api/") {
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return RoleViewer, true
		}
		return RoleOperator, true
	}
	return "", false
}
