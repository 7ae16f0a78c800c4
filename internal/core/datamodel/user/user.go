package user

import "time"

// Role tags assigned to users. A user may hold several at once;
// authorization is "any role in allowed set".
const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

type User struct {
	ID           string     `gorm:"primaryKey;type:uuid"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`

	Roles []UserRole `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// UserRole is one (user, role) assignment; uniqueness of the pair keeps
// the role set duplicate-free.
type UserRole struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	Role      string    `gorm:"column:role;not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

func (u *User) RoleNames() []string {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = r.Role
	}
	return roles
}

// RefreshToken stores one issued refresh credential. Only a SHA-256 hash
// of the raw token is persisted. A token is usable iff revoked_at is null
// and expires_at is in the future.
type RefreshToken struct {
	ID            string     `gorm:"primaryKey;type:uuid"`
	UserID        string     `gorm:"column:user_id;type:uuid;not null;index"`
	TokenHash     string     `gorm:"column:token_hash;uniqueIndex;not null"`
	ExpiresAt     time.Time  `gorm:"column:expires_at;not null"`
	RevokedAt     *time.Time `gorm:"column:revoked_at"`
	ReplacedByID  *string    `gorm:"column:replaced_by_id;type:uuid"`
	UserAgent     *string    `gorm:"column:user_agent"`
	IPAddress     *string    `gorm:"column:ip_address"`
	CreatedAt     time.Time  `gorm:"column:created_at;default:now()"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
