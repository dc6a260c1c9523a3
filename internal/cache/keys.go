// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

// Key prefixes. Mutations invalidate a whole prefix.
const (
	PrefixPageContent  = "page-content:"
	PrefixCatalog      = "catalog:"
	PrefixReadings     = "readings:"
	PrefixSlides       = "slides:"
	PrefixHistory      = "history:"
	PrefixMassSchedule = "mass-schedule:"
)

// PageContentKey is the key for one normalized page.
func PageContentKey(page string) string {
	return PrefixPageContent + page
}

// PageContentAllKey is the key for the map of every page.
const PageContentAllKey = PrefixPageContent + "*all"

// CatalogKey is the key for the public list of a catalog table.
func CatalogKey(table string) string {
	return PrefixCatalog + table + ":active"
}

// ReadingsDateKey is the key for the readings of one day.
func ReadingsDateKey(date string) string {
	return PrefixReadings + date
}
