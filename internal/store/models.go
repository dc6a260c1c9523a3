// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	LastLoginAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PageContent holds the stored JSON document for one page.
type PageContent struct {
	PageName  string
	Document  string
	UpdatedBy sql.NullInt64
	UpdatedAt time.Time
}

// CatalogEntry is a row of the sacraments or services table.
// Requirements, ProcessSteps and Fees are JSON arrays.
type CatalogEntry struct {
	ID            int64
	Name          string
	Slug          string
	Title         string
	Description   string
	Image         string
	Requirements  string
	ProcessSteps  string
	Fees          string
	Schedule      string
	ContactPerson string
	ContactInfo   string
	SortOrder     int64
	IsActive      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Announcement struct {
	ID        int64
	Title     string
	Content   string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type News struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Event struct {
	ID          int64
	Title       string
	Date        string
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MassTime struct {
	ID        int64
	Day       string
	Time      string
	CreatedAt time.Time
}

type Priest struct {
	ID        int64
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Reading struct {
	ID        int64
	Date      string
	Title     string
	Reading1  string
	Psalm     string
	Reading2  string
	Gospel    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Slide struct {
	ID         int64
	Title      string
	Subtitle   string
	Image      string
	SortOrder  int64
	ButtonText string
	ButtonLink string
	IsActive   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type History struct {
	Content   string
	HeroImage string
	UpdatedAt time.Time
}

// AdminEvent is an audit row written on login attempts.
type AdminEvent struct {
	ID         int64
	AdminEmail string
	Action     string
	IPAddress  string
	Browser    string
	OS         string
	CreatedAt  time.Time
}

// EventLog is a persisted WARN+ log record.
type EventLog struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
