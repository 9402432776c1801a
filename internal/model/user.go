package model

import "time"

// DefaultTimezone is used when a user has no stored timezone.
const DefaultTimezone = "UTC"

// User holds per-user preferences. Identity itself is owned by the caller.
type User struct {
	Key       string    `json:"key"`
	ID        string    `json:"id" validate:"required"`
	Timezone  string    `json:"timezone"`
	Theme     string    `json:"theme,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this user.
func (u *User) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this user.
func (u *User) GetKey() string {
	return u.Key
}

// GenerateUserKey generates a database key for a user.
func GenerateUserKey(userID string) string {
	return joinKey(PrefixUser, userID)
}

// NewUser creates a user with the default timezone.
func NewUser(userID string) *User {
	return &User{
		Key:       GenerateUserKey(userID),
		ID:        userID,
		Timezone:  DefaultTimezone,
		CreatedAt: time.Now().UTC(),
	}
}

// RetentionPolicy bounds how many snapshots a user keeps.
// Zero means unlimited for either bound.
type RetentionPolicy struct {
	Key      string `json:"key"`
	UserID   string `json:"user_id"`
	MaxDays  int    `json:"max_days" validate:"gte=0"`
	MaxCount int    `json:"max_count" validate:"gte=0"`
}

// SetKey sets the database key for this policy.
func (p *RetentionPolicy) SetKey(key string) {
	p.Key = key
}

// GetKey returns the database key for this policy.
func (p *RetentionPolicy) GetKey() string {
	return p.Key
}

// GenerateRetentionKey generates a database key for a user's retention policy.
func GenerateRetentionKey(userID string) string {
	return joinKey(PrefixRetention, userID)
}

// NewRetentionPolicy creates a retention policy for a user.
func NewRetentionPolicy(userID string, maxDays, maxCount int) *RetentionPolicy {
	return &RetentionPolicy{
		Key:      GenerateRetentionKey(userID),
		UserID:   userID,
		MaxDays:  maxDays,
		MaxCount: maxCount,
	}
}

// Unlimited reports whether the policy never prunes anything.
func (p *RetentionPolicy) Unlimited() bool {
	return p.MaxDays <= 0 && p.MaxCount <= 0
}
