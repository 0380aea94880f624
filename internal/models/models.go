package models

import "time"

type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email        string `gorm:"uniqueIndex;not null"`
	Username     string
	Phone        string
	AvatarURL    string
	PasswordHash string
	IsAdmin      bool
}

// Session is a server-side login session referenced by a cookie token.
type Session struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Token     string `gorm:"uniqueIndex;not null"`
	UserID    uint
	User      User
	ExpiresAt time.Time
}

type Class struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name             string
	BriefDescription string
	FullDescription  string
	Instructor       string
	StartTime        time.Time
	EndTime          time.Time // always StartTime + 1h, recomputed on update
	Price            float64
	WeeklyRepeat     int // always 0 on stored rows; repeats are expanded at create time
	IsCancelled      bool
}

// Status: "pending", "completed", "failed"
type Registration struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ClassID uint
	Class   Class
	UserID  uint
	User    User

	PaymentAmount float64
	PaymentStatus string
	// Which informal payment link the user clicked last. Advisory only:
	// it does not confirm payment and never changes PaymentStatus.
	PaymentMethod      string
	PaymentLinkClicked bool
	PaymentRef         string // external payment reference, if any
}

type Waiver struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title    string
	Body     string `gorm:"type:text"` // markdown
	IsActive bool
	Version  int
}
