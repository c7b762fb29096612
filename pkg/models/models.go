package models

import (
	"time"
)

type Publisher struct {
	ID           uint   `gorm:"primaryKey"`
	PublisherUid string `gorm:"type:uuid;uniqueIndex;not null"`
	Name         string `gorm:"size:120;not null"`
	Address      string
	Email        string `gorm:"size:120"`
	Phone        string `gorm:"size:40"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AgeCategory struct {
	ID             uint   `gorm:"primaryKey"`
	AgeCategoryUid string `gorm:"type:uuid;uniqueIndex;not null"`
	Tag            string `gorm:"size:40;not null"`
	Description    string
	MinimumAge     int `gorm:"not null;check:minimum_age >= 0 AND minimum_age <= 100"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Author struct {
	ID          uint   `gorm:"primaryKey"`
	AuthorUid   string `gorm:"type:uuid;uniqueIndex;not null"`
	Name        string `gorm:"size:80;not null"`
	Surname     string `gorm:"size:80;not null"`
	DateOfBirth time.Time
	Pseudonym   *string `gorm:"size:80"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Genre struct {
	ID          uint   `gorm:"primaryKey"`
	GenreUid    string `gorm:"type:uuid;uniqueIndex;not null"`
	Name        string `gorm:"size:80;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	CustomerUid string `gorm:"type:uuid;uniqueIndex;not null"`
	Username    string `gorm:"size:80;not null;uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Item struct {
	ID             uint   `gorm:"primaryKey"`
	ItemUid        string `gorm:"type:uuid;uniqueIndex;not null"`
	Name           string `gorm:"not null"`
	Description    string
	ImageURL       string
	PublishingDate time.Time
	Language       string  `gorm:"size:40"`
	Price          float64 `gorm:"not null;check:price > 0"`
	StockQuantity  int     `gorm:"not null;default:0;check:stock_quantity >= 0"`
	PublisherID    uint
	AgeCategoryID  uint

	// Condition facet: exactly one of NEW/USED, payload columns per variant.
	Condition      string `gorm:"size:10;not null"`
	IsSealed       *bool
	UsedGrade      *string `gorm:"size:10"`
	HasAnnotations *bool

	// Content facet: at most one of BOOK/MAGAZINE/NEWSPAPER.
	ContentType      string `gorm:"size:12;not null;default:'NONE'"`
	Pages            *int
	CoverType        *string `gorm:"size:16"`
	IsSpecialEdition *bool
	Headline         *string
	Topics           *string

	Publisher   Publisher   `gorm:"foreignKey:PublisherID"`
	AgeCategory AgeCategory `gorm:"foreignKey:AgeCategoryID"`
	Authors     []Author    `gorm:"many2many:item_authors"`
	Genres      []Genre     `gorm:"many2many:item_genres"`
	Reviews     []Review    `gorm:"foreignKey:ItemID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Review struct {
	ID         uint   `gorm:"primaryKey"`
	ReviewUid  string `gorm:"type:uuid;uniqueIndex;not null"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Text       string
	CustomerID uint
	ItemID     uint

	Customer Customer `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID         uint   `gorm:"primaryKey"`
	OrderUid   string `gorm:"type:uuid;uniqueIndex;not null"`
	Status     string `gorm:"size:20;not null"`
	CustomerID uint

	ConfirmedAt          *time.Time
	PreparationStartedAt *time.Time
	ShippedAt            *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time

	Customer Customer    `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Payment  *Payment    `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	OrderID  uint `gorm:"primaryKey;autoIncrement:false"`
	ItemID   uint `gorm:"primaryKey;autoIncrement:false"`
	Quantity int  `gorm:"not null;check:quantity > 0"`

	Item Item `gorm:"foreignKey:ItemID"`
}

type Payment struct {
	ID         uint    `gorm:"primaryKey"`
	PaymentUid string  `gorm:"type:uuid;uniqueIndex;not null"`
	Type       string  `gorm:"size:12;not null"`
	Amount     float64 `gorm:"not null"`
	OrderID    uint    `gorm:"uniqueIndex"`
	CreatedAt  time.Time
}

func All() []interface{} {
	return []interface{}{
		&Publisher{}, &AgeCategory{}, &Author{}, &Genre{}, &Customer{},
		&Item{}, &Review{}, &Order{}, &OrderItem{}, &Payment{},
	}
}
