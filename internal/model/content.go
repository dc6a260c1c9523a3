// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// News is a short parish news item without an image.
type News struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is a parish event. Date is YYYY-MM-DD.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MassTime struct {
	ID   int64  `json:"id"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// MassDay groups the mass times of one day.
type MassDay struct {
	Day   string     `json:"day"`
	Times []MassTime `json:"times"`
}

type Priest struct {
	ID  int64  `json:"id"`
	Bio string `json:"bio"`
}

// Reading holds the liturgical readings of one day. Date is YYYY-MM-DD.
type Reading struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Reading1 string `json:"reading1"`
	Psalm    string `json:"psalm"`
	Reading2 string `json:"reading2"`
	Gospel   string `json:"gospel"`
}

// Slide is a home page slideshow entry.
type Slide struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Image      string `json:"image"`
	Order      int64  `json:"order"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`
	IsActive   bool   `json:"isActive"`
}

type History struct {
	Content   string     `json:"content"`
	HeroImage string     `json:"heroImage"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UploadResult is returned by the upload endpoints.
type UploadResult struct {
	FilePath string `json:"filePath"`
}
