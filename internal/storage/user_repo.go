package storage

import (
	"github.com/manav03panchal/daymark/internal/model"
)

// UserRepo provides operations for user settings and retention policies.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Get retrieves a user's settings.
func (r *UserRepo) Get(userID string) (*model.User, error) {
	user := &model.User{}
	if err := r.db.Get(model.GenerateUserKey(userID), user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetOrCreate retrieves a user's settings, creating defaults on first use.
func (r *UserRepo) GetOrCreate(userID string) (*model.User, bool, error) {
	user, err := r.Get(userID)
	if err == nil {
		return user, false, nil
	}
	if !IsErrKeyNotFound(err) {
		return nil, false, err
	}

	user = model.NewUser(userID)
	if err := r.db.Set(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Update stores a user's settings.
func (r *UserRepo) Update(user *model.User) error {
	user.Key = model.GenerateUserKey(user.ID)
	return r.db.Set(user)
}

// GetRetention retrieves a user's snapshot retention policy.
func (r *UserRepo) GetRetention(userID string) (*model.RetentionPolicy, error) {
	policy := &model.RetentionPolicy{}
	if err := r.db.Get(model.GenerateRetentionKey(userID), policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// SetRetention stores a user's snapshot retention policy.
func (r *UserRepo) SetRetention(policy *model.RetentionPolicy) error {
	policy.Key = model.GenerateRetentionKey(policy.UserID)
	return r.db.Set(policy)
}
