package web

import "github.com/clinicdesk/clinic-web/internal/core/view"

// NavItem is one sidebar link.
type NavItem struct {
	Path  string
	Label string
	Icon  string
}

// Nav is the sidebar in display order.
var Nav = []NavItem{
	{Path: "/", Label: "الرئيسية", Icon: "home"},
	{Path: "/patients", Label: "المرضى", Icon: "users"},
	{Path: "/visits", Label: "الزيارات", Icon: "clipboard"},
	{Path: "/appointments", Label: "المواعيد", Icon: "calendar"},
	{Path: "/settings", Label: "الإعدادات", Icon: "settings"},
}

// Shell is the signed-in frame around a page.
type Shell struct {
	Email     string
	Initial   string
	RoleLabel string
	Active    string
	Nav       []NavItem
}

// Page is the data handed to every template.
type Page struct {
	Title   string
	Theme   string
	CSRF    string
	Shell   *Shell
	Notices []view.Notice
	Data    any
}

// Dark reports whether the dark theme is selected.
func (p Page) Dark() bool { return p.Theme == "dark" }
