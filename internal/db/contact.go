package db

import "gorm.io/gorm"

// Contact submission statuses.
const (
	ContactStatusUnread   = "UNREAD"
	ContactStatusRead     = "READ"
	ContactStatusResolved = "RESOLVED"
	ContactStatusClosed   = "CLOSED"
)

// ContactSubmission stores a message sent through the public contact form.
type ContactSubmission struct {
	gorm.Model
	Name    string `gorm:"not null"`
	Email   string `gorm:"index;not null"`
	Subject string
	Message string `gorm:"type:text;not null"`
	Status  string `gorm:"index;default:UNREAD"`
	IP      string
}

// Media 记录一次上传的文件及其缩略图。
type Media struct {
	gorm.Model
	FileName     string `gorm:"uniqueIndex;not null"`
	OriginalName string
	MimeType     string
	SizeBytes    int64
	URL          string
	ThumbURL     string
	UploaderID   uint
}

// SiteSetting is a single configuration key/value pair edited by admins.
type SiteSetting struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}
