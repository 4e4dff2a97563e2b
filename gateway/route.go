package gateway

import "strings"

//Route represents a proxy-all route: ANY /{Stage}/{BasePath}[/...]
type Route struct {
	Stage        string
	BasePath     string
	FunctionName string
}

//Prefix returns route path prefix
func (r *Route) Prefix() string {
	return "/" + r.Stage + "/" + r.BasePath
}

//Match returns true if URI path belongs to the route
func (r *Route) Match(URIPath string) bool {
	prefix := r.Prefix()
	if !strings.HasPrefix(URIPath, prefix) {
		return false
	}
	remaining := URIPath[len(prefix):]
	return remaining == "" || remaining[0] == '/' || remaining[0] == '?'
}

//Resource returns path as seen by the backend, without the stage segment
func (r *Route) Resource(URIPath string) string {
	return strings.TrimPrefix(URIPath, "/"+r.Stage)
}
