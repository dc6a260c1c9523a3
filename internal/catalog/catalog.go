// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog normalizes sacrament and service entries before they are
// stored or listed.
package catalog

import (
	"slices"
	"strings"

	"github.com/olegiv/parish-go/internal/model"
	"github.com/olegiv/parish-go/internal/sanitize"
	"github.com/olegiv/parish-go/internal/util"
)

// Kind distinguishes sacraments from services.
type Kind string

const (
	KindSacrament Kind = "sacrament"
	KindService   Kind = "service"
)

// IsValidSacramentType reports whether name is a known sacrament type.
func IsValidSacramentType(name string) bool {
	return slices.Contains(model.SacramentTypes, name)
}

// Clean trims text fields, drops blank rows and renumbers process steps
// 1..n in their original order. Sacrament names are lower-cased. A missing
// slug is derived from the title, or from the name when the title is blank.
func Clean(e model.CatalogEntry, kind Kind) model.CatalogEntry {
	e.Name = sanitize.Text(e.Name)
	if kind == KindSacrament {
		e.Name = strings.ToLower(e.Name)
	}
	e.Title = sanitize.Text(e.Title)
	e.Description = sanitize.Text(e.Description)
	e.Image = sanitize.URL(e.Image)
	e.Schedule = sanitize.Text(e.Schedule)
	e.ContactPerson = sanitize.Text(e.ContactPerson)
	e.ContactInfo = sanitize.Text(e.ContactInfo)

	e.Requirements = cleanRequirements(e.Requirements)
	e.ProcessSteps = cleanSteps(e.ProcessSteps, kind)
	e.Fees = cleanFees(e.Fees)

	if e.Title == "" && kind == KindService {
		e.Title = e.Name
	}

	e.Slug = util.Slugify(e.Slug)
	if e.Slug == "" {
		e.Slug = util.Slugify(e.Title)
	}
	if e.Slug == "" {
		e.Slug = util.Slugify(e.Name)
	}
	return e
}

func cleanRequirements(in []model.Requirement) []model.Requirement {
	out := make([]model.Requirement, 0, len(in))
	for _, r := range in {
		r.Item = sanitize.Text(r.Item)
		r.Notes = sanitize.Text(r.Notes)
		if r.Item == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// cleanSteps keeps steps with a title. Service steps written with only a
// description are kept too, since the service editor has no title field.
func cleanSteps(in []model.ProcessStep, kind Kind) []model.ProcessStep {
	out := make([]model.ProcessStep, 0, len(in))
	for _, s := range in {
		s.Title = sanitize.Text(s.Title)
		s.Description = sanitize.Text(s.Description)
		s.Timeframe = sanitize.Text(s.Timeframe)
		if s.Title == "" && (kind == KindSacrament || s.Description == "") {
			continue
		}
		out = append(out, s)
	}
	for i := range out {
		out[i].Step = i + 1
	}
	return out
}

func cleanFees(in []model.Fee) []model.Fee {
	out := make([]model.Fee, 0, len(in))
	for _, f := range in {
		f.Item = sanitize.Text(f.Item)
		f.Amount = sanitize.Text(f.Amount)
		f.Notes = sanitize.Text(f.Notes)
		if f.Item == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ActiveOnly returns the active entries in their original order.
func ActiveOnly(entries []model.CatalogEntry) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out
}

// Validate returns field errors for an entry that has already been cleaned.
func Validate(e model.CatalogEntry, kind Kind) map[string]string {
	errs := map[string]string{}
	switch kind {
	case KindSacrament:
		if !IsValidSacramentType(e.Name) {
			errs["name"] = "must be one of " + strings.Join(model.SacramentTypes, ", ")
		}
		if e.Title == "" {
			errs["title"] = "title is required"
		}
	case KindService:
		if e.Name == "" {
			errs["name"] = "name is required"
		}
	}
	if e.Slug == "" {
		errs["slug"] = "could not derive a slug from the title"
	}
	if e.Order < 0 {
		errs["order"] = "must not be negative"
	}
	return errs
}
