// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagecontent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawContent is a stored document as found, with every field optional.
// Documents saved by older editors lack the mass-times keys entirely.
type RawContent struct {
	PageName            *string           `json:"pageName"`
	HeroImage           *string           `json:"heroImage"`
	HeroTitle           *string           `json:"heroTitle"`
	HeroSubtitle        *string           `json:"heroSubtitle"`
	Content             *string           `json:"content"`
	SpecialSchedules    []SpecialSchedule `json:"specialSchedules"`
	OfficeHours         []OfficeHour      `json:"officeHours"`
	OfficeEmergencyNote *string           `json:"officeEmergencyNote"`
	ContactSection      *ContactSection   `json:"contactSection"`
}

// HasMassTimesFields reports whether any mass-times key carried data.
func (r *RawContent) HasMassTimesFields() bool {
	if r == nil {
		return false
	}
	return len(r.SpecialSchedules) > 0 || len(r.OfficeHours) > 0 ||
		r.OfficeEmergencyNote != nil || r.ContactSection != nil
}

// ParseRaw decodes a stored document. Empty input and "null" yield an
// empty document; unknown keys are ignored.
func ParseRaw(data []byte) (*RawContent, error) {
	raw := &RawContent{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return raw, nil
	}
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("decoding page content: %w", err)
	}
	return raw, nil
}

// Normalize fills every absent or blank hero/content field with the page's
// fallback literal. For mass-times the extension is always present with
// non-nil slices; for every other page it is nil. raw may be nil.
func Normalize(raw *RawContent, name PageName) Content {
	if raw == nil {
		raw = &RawContent{}
	}
	fb := defaults[name]

	c := Content{
		CommonPageContent: CommonPageContent{
			PageName:     name,
			HeroImage:    orDefault(raw.HeroImage, fb.heroImage),
			HeroTitle:    orDefault(raw.HeroTitle, fb.heroTitle),
			HeroSubtitle: orDefault(raw.HeroSubtitle, fb.heroSubtitle),
			Content:      orDefault(raw.Content, fb.content),
		},
	}

	if !name.HasMassTimes() {
		return c
	}

	ext := &MassTimesExtension{
		SpecialSchedules: copySchedules(raw.SpecialSchedules),
		OfficeHours:      append(make([]OfficeHour, 0, len(raw.OfficeHours)), raw.OfficeHours...),
	}
	if raw.OfficeEmergencyNote != nil {
		ext.OfficeEmergencyNote = *raw.OfficeEmergencyNote
	}
	if raw.ContactSection != nil {
		ext.ContactSection = *raw.ContactSection
	}
	c.MassTimes = ext
	return c
}

// NormalizeDocument parses and normalizes a stored document in one step.
func NormalizeDocument(data []byte, name PageName) (Content, error) {
	raw, err := ParseRaw(data)
	if err != nil {
		return Content{}, err
	}
	return Normalize(raw, name), nil
}

// Denormalize turns an edited form back into a save payload. Mass-times
// data is dropped unless name is mass-times.
func Denormalize(form Content, name PageName) UpsertPayload {
	p := UpsertPayload{
		HeroImage:    form.HeroImage,
		HeroTitle:    form.HeroTitle,
		HeroSubtitle: form.HeroSubtitle,
		Content:      form.Content,
	}
	if !name.HasMassTimes() {
		return p
	}

	ext := MassTimesExtension{
		SpecialSchedules: copySchedules(form.SpecialSchedules()),
		OfficeHours:      append(make([]OfficeHour, 0), form.OfficeHours()...),
	}
	if form.MassTimes != nil {
		ext.OfficeEmergencyNote = form.MassTimes.OfficeEmergencyNote
		ext.ContactSection = form.MassTimes.ContactSection
	}
	p.MassTimes = &ext
	return p
}

func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// copySchedules deep-copies blocks so that no item slice is nil or shared.
func copySchedules(in []SpecialSchedule) []SpecialSchedule {
	out := make([]SpecialSchedule, 0, len(in))
	for _, s := range in {
		items := make([]ScheduleItem, len(s.Items))
		copy(items, s.Items)
		s.Items = items
		out = append(out, s)
	}
	return out
}
