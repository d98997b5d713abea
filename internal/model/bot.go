// Copyright (c) 2025-2026 Wicked Host
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// BotStatus is a Discord bot listing state.
type BotStatus string

// Bot statuses.
const (
	BotStatusActive   BotStatus = "ACTIVE"
	BotStatusInactive BotStatus = "INACTIVE"
)

// Valid reports whether s is a known bot status.
func (s BotStatus) Valid() bool {
	return s == BotStatusActive || s == BotStatusInactive
}

// Bot represents a Discord bot listing.
type Bot struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	ShortDescription string        `json:"short_description"`
	Description      string        `json:"description,omitempty"`
	InviteLink       string        `json:"invite_link,omitempty"`
	ImagePath        string        `json:"image_path,omitempty"`
	Status           BotStatus     `json:"status"`
	CreatedBy        int64         `json:"created_by"`
	UpdatedBy        sql.NullInt64 `json:"-"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
