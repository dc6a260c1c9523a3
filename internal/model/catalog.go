// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Sacrament types accepted in the name field of a sacrament.
const (
	SacramentBaptism      = "baptism"
	SacramentWedding      = "wedding"
	SacramentBurial       = "burial"
	SacramentConfirmation = "confirmation"
	SacramentCommunion    = "communion"
)

// SacramentTypes lists the sacrament types in display order.
var SacramentTypes = []string{
	SacramentBaptism,
	SacramentWedding,
	SacramentBurial,
	SacramentConfirmation,
	SacramentCommunion,
}

// CatalogEntry is a sacrament or a parish service.
type CatalogEntry struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Image         string        `json:"image"`
	Requirements  []Requirement `json:"requirements"`
	ProcessSteps  []ProcessStep `json:"processSteps"`
	Fees          []Fee         `json:"fees"`
	Schedule      string        `json:"schedule"`
	ContactPerson string        `json:"contactPerson"`
	ContactInfo   string        `json:"contactInfo"`
	Order         int64         `json:"order"`
	IsActive      bool          `json:"isActive"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Requirement is one document or condition needed for a sacrament or service.
type Requirement struct {
	Item     string `json:"item"`
	Required bool   `json:"required"`
	Notes    string `json:"notes"`
}

// UnmarshalJSON also accepts a bare string, which becomes a required item.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Requirement{Item: s, Required: true}
		return nil
	}
	type plain Requirement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Requirement(p)
	return nil
}

// ProcessStep is one numbered step of a process.
type ProcessStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timeframe   string `json:"timeframe"`
}

// UnmarshalJSON accepts step as a number, a numeric string, or free text.
// Free text in step with no title becomes the title.
func (p *ProcessStep) UnmarshalJSON(data []byte) error {
	var raw struct {
		Step        json.RawMessage `json:"step"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Timeframe   string          `json:"timeframe"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = ProcessStep{Title: raw.Title, Description: raw.Description, Timeframe: raw.Timeframe}
	if len(raw.Step) == 0 || string(raw.Step) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(raw.Step, &n); err == nil {
		p.Step = n
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Step, &s); err != nil {
		return err
	}
	if n, err := strconv.Atoi(s); err == nil {
		p.Step = n
	} else if p.Title == "" {
		p.Title = s
	}
	return nil
}

// Fee is one cost line. Amount is free text such as "500" or "Free will offering".
type Fee struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Notes  string `json:"notes"`
}

// UnmarshalJSON also accepts a bare string and a numeric amount.
func (f *Fee) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Fee{Item: s}
		return nil
	}
	var raw struct {
		Item   string          `json:"item"`
		Amount json.RawMessage `json:"amount"`
		Notes  string          `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Fee{Item: raw.Item, Notes: raw.Notes}
	if len(raw.Amount) == 0 || string(raw.Amount) == "null" {
		return nil
	}
	var amount string
	if err := json.Unmarshal(raw.Amount, &amount); err == nil {
		f.Amount = amount
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(raw.Amount, &num); err != nil {
		return err
	}
	f.Amount = num.String()
	return nil
}
