package model

import "time"

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Message statuses. New submissions start as "new" and admins flip them to
// "read" once handled.
const (
	MessageStatusNew  = "new"
	MessageStatusRead = "read"
)

// Message is a richer contact-form submission that also triggers email
// notification when SMTP is configured.
type Message struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Moment categories form a closed set with a default of Events.
const (
	CategoryEvents     = "Events"
	CategoryActivities = "Activities"
	CategoryCampus     = "Campus"
)

// ValidCategory reports whether c is a known moment category.
func ValidCategory(c string) bool {
	return c == CategoryEvents || c == CategoryActivities || c == CategoryCampus
}

// Moment is a photo gallery entry. ImagePath is the public URL path of the
// stored image. At most one moment has IsTop set at a time.
type Moment struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	ImagePath   string     `json:"imagePath" db:"image_path"`
	Category    string     `json:"category" db:"category"`
	Subcategory string     `json:"subcategory" db:"subcategory"`
	EventDate   *time.Time `json:"eventDate,omitempty" db:"event_date"`
	IsTop       bool       `json:"isTop" db:"is_top"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Notice is a short announcement shown on the public site.
type Notice struct {
	ID         string    `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	NoticeDate time.Time `json:"noticeDate" db:"notice_date"`
	CreatedBy  *string   `json:"-" db:"created_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// AdmissionForm records an uploaded admission form document. FilePath is the
// public URL path under /uploads.
type AdmissionForm struct {
	ID         string    `json:"id" db:"id"`
	FileName   string    `json:"fileName" db:"file_name"`
	FilePath   string    `json:"filePath" db:"file_path"`
	MimeType   string    `json:"mimeType" db:"mime_type"`
	Size       int64     `json:"size" db:"size"`
	UploadedBy *string   `json:"-" db:"uploaded_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// SiteSetting is a free-form key/value setting editable by admins.
type SiteSetting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedBy *string   `json:"-" db:"updated_by"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
