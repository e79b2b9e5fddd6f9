package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemImagePlaceholder is stored for every item; uploads are not supported.
const ItemImagePlaceholder = "/placeholder.svg?height=200&width=200"

// Profile mirrors the identity provider's user so carts and comments can show an author.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"size:255"              json:"name"`
	Email     string    `gorm:"size:255"              json:"email,omitempty"`
	Image     string    `gorm:"size:1024"             json:"image,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"                            json:"owner_id"`
	Owner     *Profile  `gorm:"foreignKey:OwnerID"                                  json:"owner,omitempty"`
	Title     string    `gorm:"size:255;not null"                                   json:"title"`
	URL       string    `gorm:"size:2048"                                           json:"url,omitempty"`
	Items     []Item    `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"       json:"items,omitempty"`
	CreatedAt time.Time `gorm:"index"                                               json:"created_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Cart) TableName() string {
	return "carts"
}

type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;index"      json:"cart_id"`
	Name        string          `gorm:"size:255;not null"             json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"price"`
	URL         string          `gorm:"size:2048"                     json:"url,omitempty"`
	Description string          `gorm:"type:text"                     json:"description"`
	Suggestion  string          `gorm:"type:text"                     json:"ai_suggestion"`
	Image       string          `gorm:"size:1024"                     json:"image"`
	Position    int             `gorm:"not null;default:0"            json:"-"`
	Comments    []Comment       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Item) TableName() string {
	return "items"
}

// Comment ids are monotonic so ties on created_at still sort newest first.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"            json:"id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index"            json:"item_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"                  json:"user_id"`
	Author    *Profile  `gorm:"foreignKey:UserID"                   json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null"                  json:"content"`
	CreatedAt time.Time `gorm:"index"                               json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
