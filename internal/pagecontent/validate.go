// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagecontent

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field length limits.
const (
	MaxHeroFieldLength = 500
	MaxContentLength   = 100_000
	MaxScheduleBlocks  = 50
	MaxRowsPerBlock    = 100
)

// ValidationErrors maps a field path to a message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "invalid page content: " + strings.Join(parts, "; ")
}

// Validate checks a document before it is saved under name. An empty
// items list in a schedule block is valid.
func (c Content) Validate(name PageName) error {
	errs := ValidationErrors{}

	if !IsValidPageName(string(name)) {
		errs["pageName"] = fmt.Sprintf("unknown page %q", name)
		return errs
	}
	if c.MassTimes != nil && !name.HasMassTimes() {
		errs["specialSchedules"] = "only the mass-times page has schedules"
	}

	checkLen(errs, "heroImage", c.HeroImage, MaxHeroFieldLength)
	checkLen(errs, "heroTitle", c.HeroTitle, MaxHeroFieldLength)
	checkLen(errs, "heroSubtitle", c.HeroSubtitle, MaxHeroFieldLength)
	checkLen(errs, "content", c.Content, MaxContentLength)

	if c.MassTimes != nil {
		validateMassTimes(errs, c.MassTimes)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMassTimes(errs ValidationErrors, m *MassTimesExtension) {
	if len(m.SpecialSchedules) > MaxScheduleBlocks {
		errs["specialSchedules"] = fmt.Sprintf("at most %d blocks", MaxScheduleBlocks)
	}
	for i, s := range m.SpecialSchedules {
		if strings.TrimSpace(s.Title) == "" {
			errs[fmt.Sprintf("specialSchedules[%d].title", i)] = "title is required"
		}
		if len(s.Items) > MaxRowsPerBlock {
			errs[fmt.Sprintf("specialSchedules[%d].items", i)] = fmt.Sprintf("at most %d rows", MaxRowsPerBlock)
		}
	}
	for i, h := range m.OfficeHours {
		if strings.TrimSpace(h.Days) == "" && strings.TrimSpace(h.Hours) == "" {
			errs[fmt.Sprintf("officeHours[%d]", i)] = "days or hours is required"
		}
	}
	if email := strings.TrimSpace(m.ContactSection.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs["contactSection.email"] = "invalid email address"
		}
	}
}

func checkLen(errs ValidationErrors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		errs[field] = fmt.Sprintf("must be at most %d characters", max)
	}
}
