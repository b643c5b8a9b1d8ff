package models

// ArticleGroupType classifies what kind of time an article group represents
type ArticleGroupType string

const (
	// ArticleGroupTypeOrdinarie is regular, debitable client work.
	ArticleGroupTypeOrdinarie ArticleGroupType = "ordinarie"
	// ArticleGroupTypeInterntid is internal, non-debitable time.
	ArticleGroupTypeInterntid ArticleGroupType = "interntid"
	// ArticleGroupTypeFranvaro is absence (vacation, sick leave).
	ArticleGroupTypeFranvaro ArticleGroupType = "franvaro"
)

// ArticleGroup groups articles by the kind of time they represent
type ArticleGroup struct {
	Base
	Name string           `gorm:"not null" json:"name"`
	Type ArticleGroupType `gorm:"not null" json:"type"`

	// Relationships
	Articles []Article `gorm:"foreignKey:GroupID" json:"articles,omitempty"`
}

// Article is a billable (or internal) service that hours are reported on
type Article struct {
	Base
	Name    string `gorm:"not null" json:"name"`
	GroupID uint   `gorm:"not null" json:"group_id"`
	// IncludedInFixedPrice marks articles billed under a customer's
	// fixed-price (fastpris) budget rather than per hour.
	IncludedInFixedPrice bool `gorm:"default:false" json:"included_in_fixed_price"`
	IsActive             bool `gorm:"default:true" json:"is_active"`

	// Relationships
	Group ArticleGroup `gorm:"foreignKey:GroupID" json:"group"`
}
