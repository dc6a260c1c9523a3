// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagecontent

import (
	"encoding/json"
)

// CommonPageContent is the hero and body every page has.
type CommonPageContent struct {
	PageName     PageName `json:"pageName"`
	HeroImage    string   `json:"heroImage"`
	HeroTitle    string   `json:"heroTitle"`
	HeroSubtitle string   `json:"heroSubtitle"`
	Content      string   `json:"content"`
}

// MassTimesExtension is the structured data only the mass-times page carries.
type MassTimesExtension struct {
	SpecialSchedules    []SpecialSchedule `json:"specialSchedules"`
	OfficeHours         []OfficeHour      `json:"officeHours"`
	OfficeEmergencyNote string            `json:"officeEmergencyNote"`
	ContactSection      ContactSection    `json:"contactSection"`
}

// SpecialSchedule is a named block such as "Holy Week" with its own rows.
type SpecialSchedule struct {
	Title string         `json:"title"`
	Color string         `json:"color"`
	Icon  string         `json:"icon"`
	Items []ScheduleItem `json:"items"`
}

type ScheduleItem struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

type OfficeHour struct {
	Days  string `json:"days"`
	Hours string `json:"hours"`
}

type ContactSection struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// Content is a normalized page document. MassTimes is nil for every page
// other than mass-times.
type Content struct {
	CommonPageContent
	MassTimes *MassTimesExtension
}

// SpecialSchedules returns the schedule blocks, never nil.
func (c Content) SpecialSchedules() []SpecialSchedule {
	if c.MassTimes == nil || c.MassTimes.SpecialSchedules == nil {
		return []SpecialSchedule{}
	}
	return c.MassTimes.SpecialSchedules
}

// OfficeHours returns the office-hour rows, never nil.
func (c Content) OfficeHours() []OfficeHour {
	if c.MassTimes == nil || c.MassTimes.OfficeHours == nil {
		return []OfficeHour{}
	}
	return c.MassTimes.OfficeHours
}

// MarshalJSON flattens the extension into the document and omits every
// mass-times key when the extension is nil.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.MassTimes == nil {
		return json.Marshal(c.CommonPageContent)
	}
	return json.Marshal(struct {
		CommonPageContent
		MassTimesExtension
	}{c.CommonPageContent, *c.MassTimes})
}

// UnmarshalJSON reads a flat document. The page name inside the document
// decides whether the extension is kept.
func (c *Content) UnmarshalJSON(data []byte) error {
	raw, err := ParseRaw(data)
	if err != nil {
		return err
	}
	name := PageName("")
	if raw.PageName != nil {
		name = PageName(*raw.PageName)
	}
	*c = Normalize(raw, name)
	return nil
}

// UpsertPayload is the body the editor sends to save a page.
type UpsertPayload struct {
	HeroImage    string
	HeroTitle    string
	HeroSubtitle string
	Content      string
	MassTimes    *MassTimesExtension
}

type commonPayload struct {
	HeroImage    string `json:"heroImage"`
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	Content      string `json:"content"`
}

// MarshalJSON never emits a mass-times key when MassTimes is nil.
func (p UpsertPayload) MarshalJSON() ([]byte, error) {
	common := commonPayload{
		HeroImage:    p.HeroImage,
		HeroTitle:    p.HeroTitle,
		HeroSubtitle: p.HeroSubtitle,
		Content:      p.Content,
	}
	if p.MassTimes == nil {
		return json.Marshal(common)
	}
	return json.Marshal(struct {
		commonPayload
		MassTimesExtension
	}{common, *p.MassTimes})
}
