// Package site describes the public page routes of the web app and serves the
// single-page shell for them.
package site

import "strings"

type Page struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// AdminOnly pages sit behind the admin gate.
	AdminOnly bool `json:"admin_only"`
	// Auth pages need a signed-in visitor.
	Auth bool `json:"auth"`
	// Writer pages also need a role that may write blog posts.
	Writer bool `json:"writer,omitempty"`
}

// Pages is the path-to-page table. Paths use httprouter syntax.
var Pages = []Page{
	{Name: "home", Path: "/"},
	{Name: "about", Path: "/about"},
	{Name: "services", Path: "/services"},
	{Name: "startups", Path: "/startups"},
	{Name: "startup_detail", Path: "/startups/:id"},
	{Name: "blog", Path: "/blog"},
	{Name: "blog_create", Path: "/blog/new", Auth: true, Writer: true},
	{Name: "blog_detail", Path: "/blog/:slug"},
	{Name: "blog_edit", Path: "/blog/:slug/edit", Auth: true},
	{Name: "connect", Path: "/connect"},
	{Name: "profile", Path: "/profile", Auth: true},
	{Name: "contact", Path: "/contact"},
	{Name: "login", Path: "/login"},
	{Name: "admin", Path: "/admin", AdminOnly: true},
	{Name: "admin", Path: "/admin/*section", AdminOnly: true},
	{Name: "privacy", Path: "/privacy"},
	{Name: "terms", Path: "/terms"},
	{Name: "cookies", Path: "/cookies"},
}

// Lookup resolves a request path to its page. Trailing slashes are ignored.
func Lookup(path string) (Page, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	for _, p := range Pages {
		if match(p.Path, path) {
			return p, true
		}
	}

	return Page{}, false
}

func match(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")

	for i := range ps {
		if strings.HasPrefix(ps[i], "*") {
			return i < len(xs) && xs[i] != ""
		}
		if i >= len(xs) {
			return false
		}
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}

	return len(ps) == len(xs)
}
