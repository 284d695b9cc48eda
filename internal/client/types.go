package client

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// Order statuses.
const (
	OrderProcessing = "processing"
	OrderReady      = "ready"
	OrderCompleted  = "completed"
)

// SOS alert statuses.
const (
	SOSSent         = "sent"
	SOSAcknowledged = "acknowledged"
	SOSResolved     = "resolved"
)

// User is the authenticated account as returned by /api/auth/me.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	UserCode    string `json:"user_code,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
}

// Credentials are sent to login and register. FullName is only used by register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// AuthToken is the login/register response.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdate is a partial profile update. Nil fields are left unchanged.
type UserUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Chat is a conversation summary row.
type Chat struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	ContactName string `json:"contact_name"`
	LastMessage string `json:"last_message"`
	Time        string `json:"time"`
	UnreadCount int    `json:"unread_count"`
	IsOnline    bool   `json:"is_online"`
	CreatedDate string `json:"created_date,omitempty"`
}

type ChatCreate struct {
	ContactName string `json:"contact_name"`
	IsOnline    bool   `json:"is_online"`
}

// ChatUpdate is a partial chat update. Nil fields are omitted from the request.
type ChatUpdate struct {
	ContactName *string `json:"contact_name,omitempty"`
	LastMessage *string `json:"last_message,omitempty"`
	Time        *string `json:"time,omitempty"`
	UnreadCount *int    `json:"unread_count,omitempty"`
	IsOnline    *bool   `json:"is_online,omitempty"`
}

// Message is a single chat message. Messages are append-only.
type Message struct {
	ID          string `json:"id"`
	ChatID      string `json:"chat_id"`
	SenderName  string `json:"sender_name"`
	Text        string `json:"text"`
	IsOutgoing  bool   `json:"is_outgoing"`
	ImageURL    string `json:"image_url,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
}

type MessageCreate struct {
	ChatID     string `json:"chat_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	IsOutgoing bool   `json:"is_outgoing"`
	ImageURL   string `json:"image_url,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Duration    int    `json:"duration"`
	CreatedDate string `json:"created_date,omitempty"`
}

type TaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// TaskUpdate is a partial task update. Duration is in seconds.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
}

type OrderItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	TotalItems  int         `json:"total_items"`
	CreatedDate string      `json:"created_date,omitempty"`
}

type OrderCreate struct {
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	TotalItems  int         `json:"total_items"`
}

type SOSAlert struct {
	ID          string `json:"id"`
	Location    string `json:"location,omitempty"`
	Status      string `json:"status"`
	CreatedDate string `json:"created_date,omitempty"`
}

type SOSCreate struct {
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
}

// FileRef is the upload response. FileURL is absolute once returned by Client.Upload.
type FileRef struct {
	FileURL string `json:"file_url"`
}

// Ptr returns a pointer to v, for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
