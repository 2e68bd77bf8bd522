package domain

// Role is the permission level of a user
type Role string

const (
	RoleHost  Role = "HOST"
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// UserSetting holds the server-persisted per-user preferences
type UserSetting struct {
	Locale         string     `json:"locale"`
	Appearance     string     `json:"appearance"`
	MemoVisibility Visibility `json:"memoVisibility"`
	TelegramUserID string     `json:"telegramUserId,omitempty"`
}

// LocalSetting holds per-user preferences kept only on this client,
// never sent to the backend.
type LocalSetting struct {
	EnableDoubleClickEditing bool `json:"enableDoubleClickEditing"`
}

// User is a backend account. Its stable natural key is the username
// extracted from the resource name.
type User struct {
	Name      string      `json:"name"` // resource name, users/{username}
	Password  string      `json:"password,omitempty"` // write-only, masked updates only
	Nickname  string      `json:"nickname"`
	AvatarURL string      `json:"avatarUrl"`
	Role      Role        `json:"role"`
	CreatedTs int64       `json:"createdTs"`
	Setting   UserSetting `json:"setting"`
}

// Username returns the natural key of the user
func (u *User) Username() string {
	return ExtractUsername(u.Name)
}

// Clone returns a copy of the user
func (u *User) Clone() *User {
	clone := *u
	return &clone
}
