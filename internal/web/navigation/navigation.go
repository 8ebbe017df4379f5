// Package navigation builds the breadcrumb trails for the owner console.
package navigation

// DashboardPath is the root of every console breadcrumb trail.
const DashboardPath = "/dashboard"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context carries the page title and breadcrumb trail for a rendered page.
type Context struct {
	PageTitle   string
	Breadcrumbs []BreadcrumbItem
}

// NewContext creates a navigation context rooted at the dashboard.
func NewContext(pageTitle string) *Context {
	return &Context{
		PageTitle:   pageTitle,
		Breadcrumbs: []BreadcrumbItem{{Title: "Dashboard", URL: DashboardPath}},
	}
}

// BlogTrail builds the trail shared by every page under a single blog's
// console: Dashboard, then the blog itself.
func BlogTrail(pageTitle, blogName, blogURL string) *Context {
	return NewContext(pageTitle).AddBreadcrumb(blogName, blogURL, false)
}

// AddBreadcrumb appends a breadcrumb link to the trail.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// Activate marks the most recently added breadcrumb as the current page.
func (c *Context) Activate() *Context {
	if n := len(c.Breadcrumbs); n > 0 {
		c.Breadcrumbs[n-1].Active = true
	}

	return c
}
