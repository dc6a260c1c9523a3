// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagecontent reconciles stored page-content documents into one
// shape shared by the admin editor and the public pages.
package pagecontent

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageName identifies an editable page slot.
type PageName string

const (
	PageOurHistory    PageName = "our-history"
	PageAnnouncements PageName = "announcements"
	PageEvents        PageName = "events"
	PagePriest        PageName = "priest"
	PageMassTimes     PageName = "mass-times"
	PageServices      PageName = "services"
	PageDonate        PageName = "donate"
)

// AllPageNames lists every page slot in editor order.
var AllPageNames = []PageName{
	PageOurHistory,
	PageAnnouncements,
	PageEvents,
	PagePriest,
	PageMassTimes,
	PageServices,
	PageDonate,
}

// IsValidPageName reports whether name is one of AllPageNames.
func IsValidPageName(name string) bool {
	_, ok := defaults[PageName(name)]
	return ok
}

// Label returns a display label such as "Mass Times".
func (p PageName) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(p), "-", " "))
}

// HasMassTimes reports whether the page carries the mass-times extension.
func (p PageName) HasMassTimes() bool {
	return p == PageMassTimes
}

// fallback holds the literals shown when a stored field is absent or blank.
type fallback struct {
	heroImage    string
	heroTitle    string
	heroSubtitle string
	content      string
}

var defaults = map[PageName]fallback{
	PageOurHistory: {
		heroImage:    "/images/church-history.jpg",
		heroTitle:    "Our History",
		heroSubtitle: "A Legacy of Faith Since 1950",
		content:      "History content is currently unavailable.",
	},
	PageAnnouncements: {
		heroImage:    "/images/announcements-hero.jpg",
		heroTitle:    "Parish Announcements",
		heroSubtitle: "Stay Updated with Church News and Activities",
	},
	PageEvents: {
		heroImage:    "/images/events-hero.jpg",
		heroTitle:    "Church Events",
		heroSubtitle: "Join Our Community Gatherings and Celebrations",
	},
	PagePriest: {
		heroImage:    "/images/priest-hero.jpg",
		heroTitle:    "Our Parish Priest",
		heroSubtitle: "Serving Our Community with Faith and Dedication",
		content:      "Priest bio not available.",
	},
	PageMassTimes: {
		heroImage:    "/images/mass-hero.jpg",
		heroTitle:    "Mass Schedule",
		heroSubtitle: "Join Us in Prayer and Worship",
	},
	PageServices: {
		heroImage:    "/images/services-hero.jpg",
		heroTitle:    "Parish Services",
		heroSubtitle: "Discover the various ministries and services our parish offers to support your spiritual journey and community involvement.",
	},
	PageDonate: {
		heroImage:    "/images/donate-hero.jpg",
		heroTitle:    "Support Our Church",
		heroSubtitle: "Help Us Continue Our Mission Through Your Generosity",
		content:      "Your contributions help sustain our programs and outreach. Thank you for your generosity.",
	},
}
