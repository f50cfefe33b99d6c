package domain

import "time"

type Project struct {
	ID            int64
	OwnerID       int64
	Title         string
	Shared        bool
	Trashed       bool
	LoveCount     int
	FavoriteCount int
	ViewCount     int
	RemixCount    int
	Created       time.Time
	Modified      time.Time
}
