package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Video struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	CreatedAt    time.Time
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     decimal.Decimal // seconds, fractional
	IsPublished  bool
}
