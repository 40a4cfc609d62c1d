package models

import "time"

// Category is a catalog lookup entity, created at seed time.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Icon string `json:"icon,omitempty" gorm:"type:varchar(255)"`
}

// Platform is a catalog lookup entity (PC, consoles, ...).
type Platform struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
}

// Game represents a title in the store catalog.
type Game struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Title           string     `json:"title" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Description     string     `json:"description" gorm:"type:text;not null" validate:"required"`
	Price           float64    `json:"price" gorm:"not null" validate:"gte=0"`
	DiscountedPrice *float64   `json:"discountedPrice" validate:"omitempty,gte=0,ltfield=Price"`
	ImageURL        string     `json:"imageUrl" gorm:"type:text;not null" validate:"required,url"`
	Rating          *float64   `json:"rating" validate:"omitempty,gte=0,lte=5"`
	CategoryID      uint       `json:"categoryId" gorm:"index;not null" validate:"required"`
	IsFeatured      bool       `json:"isFeatured" gorm:"default:false"`
	IsNewRelease    bool       `json:"isNewRelease" gorm:"default:false"`
	IsTopRated      bool       `json:"isTopRated" gorm:"default:false"`
	Platforms       []uint     `json:"platforms" gorm:"serializer:json;type:text"`
	ReleaseDate     *time.Time `json:"releaseDate"`
}

// CurrentPrice returns the discounted price when present, else the list price.
func (g *Game) CurrentPrice() float64 {
	if g.DiscountedPrice != nil {
		return *g.DiscountedPrice
	}
	return g.Price
}
