package models

import "time"

type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Author      User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Published reports whether the post went through the publish command.
func (p *Post) Published() bool { return p.PublishedAt != nil }
