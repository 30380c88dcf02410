package catalog

import "time"

// ProductType is the jewellery category a product belongs to.
type ProductType string

const (
	TypeRing     ProductType = "ring"
	TypeNecklace ProductType = "necklace"
	TypeEarring  ProductType = "earring"
	TypeBracelet ProductType = "bracelet"
	TypeBangle   ProductType = "bangle"
)

// ProductTypes lists every allowed product type, in display order.
var ProductTypes = []ProductType{TypeRing, TypeNecklace, TypeEarring, TypeBracelet, TypeBangle}

func (t ProductType) Valid() bool {
	for _, allowed := range ProductTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

type Material string

const (
	MaterialGold     Material = "gold"
	MaterialSilver   Material = "silver"
	MaterialPlatinum Material = "platinum"
	MaterialRoseGold Material = "rose-gold"
)

var Materials = []Material{MaterialGold, MaterialSilver, MaterialPlatinum, MaterialRoseGold}

func (m Material) Valid() bool {
	for _, allowed := range Materials {
		if m == allowed {
			return true
		}
	}
	return false
}

// Occasion is an optional merchandising tag, independent of type and material.
type Occasion string

const (
	OccasionBridal  Occasion = "bridal"
	OccasionFestive Occasion = "festive"
	OccasionDaily   Occasion = "daily"
	OccasionGifting Occasion = "gifting"
)

var Occasions = []Occasion{OccasionBridal, OccasionFestive, OccasionDaily, OccasionGifting}

func (o Occasion) Valid() bool {
	for _, allowed := range Occasions {
		if o == allowed {
			return true
		}
	}
	return false
}

// Product is a catalog item. Prices are stored in cents; a product whose
// price varies by size carries the full [min, max] range. IsDeleted marks a
// soft delete: the row stays in storage but never reaches the storefront.
type Product struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     *string     `json:"description,omitempty"`
	ImageURLs       []string    `json:"image_urls"`
	Type            ProductType `json:"type"`
	Material        Material    `json:"material"`
	Occasion        *Occasion   `json:"occasion,omitempty"`
	CollectionID    *int64      `json:"collection_id,omitempty"`
	CollectionName  *string     `json:"collection_name,omitempty"`
	Stock           int         `json:"stock"`
	Featured        bool        `json:"featured"`
	MostLoved       bool        `json:"most_loved"`
	NewArrival      bool        `json:"new_arrival"`
	SKU             string      `json:"sku"`
	Sizes           []string    `json:"sizes"`
	MinPriceCents   int64       `json:"min_price_cents"`
	MaxPriceCents   int64       `json:"max_price_cents"`
	MetaTitle       *string     `json:"meta_title,omitempty"`
	MetaDescription *string     `json:"meta_description,omitempty"`
	Slug            string      `json:"slug"`
	IsDeleted       bool        `json:"-"`
	CreatedBy       *int64      `json:"created_by,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Collection groups products under a curated theme (e.g. "Heritage Bridal").
type Collection struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedBy     *int64    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RetailStore is a physical showroom listed on the storefront.
type RetailStore struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     *string   `json:"phone,omitempty"`
	MapURL    *string   `json:"map_url,omitempty"`
	PhotoURLs []string  `json:"photo_urls,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
