package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"userhub/database/model"
	"userhub/util/crypto"
	"userhub/web/entity"
)

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserService is the in-memory user store. Records live for the process
// lifetime only; there is no delete path. Email is the primary key, ids are
// monotonic from 0 and never reused.
type UserService struct {
	mu    sync.RWMutex
	users map[string]*model.User
	seq   atomic.Int64
}

func NewUserService() *UserService {
	return &UserService{
		users: make(map[string]*model.User),
	}
}

// Create hashes the password, assigns the next id and stores the record.
// Returns ErrEmailExists if the email is already taken.
func (s *UserService) Create(name, email, city string, active bool, password string) (model.PublicUser, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.PublicUser{}, err
	}
	return s.create(name, email, city, active, model.RoleUser, hash)
}

// BootstrapAdmin creates the admin account at startup. Idempotent: if the
// email is already taken the existing record is returned untouched.
func (s *UserService) BootstrapAdmin(email, password string) (model.PublicUser, error) {
	if u, err := s.FindByEmail(email); err == nil {
		return u.Public(), nil
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.PublicUser{}, err
	}
	return s.create("Administrator", email, "HQ", true, model.RoleAdmin, hash)
}

func (s *UserService) create(name, email, city string, active bool, role, passwordHash string) (model.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return model.PublicUser{}, ErrEmailExists
	}

	user := &model.User{
		Id:           s.seq.Inc() - 1,
		Name:         name,
		Email:        email,
		City:         city,
		Active:       active,
		Role:         role,
		PasswordHash: passwordHash,
	}
	s.users[email] = user
	return user.Public(), nil
}

// FindByEmail returns a copy of the record stored under email.
func (s *UserService) FindByEmail(email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return *user, nil
}

// FindByID scans for the record with the given id. Linear, which is fine at
// this scale; callers must not assume O(1).
func (s *UserService) FindByID(id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Id == id {
			return *user, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// Filter returns the public projections of all users whose name, email or
// city contains the trimmed term, case-insensitively. An empty term matches
// everyone. Results are ordered by id so pagination and ETags are stable
// across calls (map iteration order is not).
func (s *UserService) Filter(search string) []model.PublicUser {
	term := strings.ToLower(strings.TrimSpace(search))

	s.mu.RLock()
	matched := make([]model.PublicUser, 0, len(s.users))
	for _, user := range s.users {
		if term == "" ||
			strings.Contains(strings.ToLower(user.Name), term) ||
			strings.Contains(strings.ToLower(user.Email), term) ||
			strings.Contains(strings.ToLower(user.City), term) {
			matched = append(matched, user.Public())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Id < matched[j].Id })
	return matched
}

// ToggleActive flips the active flag of the user with the given id.
func (s *UserService) ToggleActive(id int64) (model.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByIDLocked(id)
	if user == nil {
		return model.PublicUser{}, ErrUserNotFound
	}
	user.Active = !user.Active
	return user.Public(), nil
}

// UserUpdate carries the optional fields of a partial update; nil fields are
// left untouched.
type UserUpdate struct {
	Name   *string
	Email  *string
	City   *string
	Active *bool
}

// Update merges the provided fields into the record with the given id. An
// email change re-keys the store and fails with ErrEmailExists when the new
// address is already taken.
func (s *UserService) Update(id int64, upd UserUpdate) (model.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByIDLocked(id)
	if user == nil {
		return model.PublicUser{}, ErrUserNotFound
	}

	if upd.Email != nil && *upd.Email != user.Email {
		if _, taken := s.users[*upd.Email]; taken {
			return model.PublicUser{}, ErrEmailExists
		}
		delete(s.users, user.Email)
		user.Email = *upd.Email
		s.users[user.Email] = user
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.City != nil {
		user.City = *upd.City
	}
	if upd.Active != nil {
		user.Active = *upd.Active
	}
	return user.Public(), nil
}

// SetRefreshToken stores the refresh token issued at login.
func (s *UserService) SetRefreshToken(email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return false
	}
	user.RefreshToken = token
	return true
}

// RevokeRefreshToken clears the stored refresh token. Reports whether a
// user with that email was found.
func (s *UserService) RevokeRefreshToken(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return false
	}
	user.RefreshToken = ""
	return true
}

// Count returns the number of stored users.
func (s *UserService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Stats aggregates the stored users, including the share of .org addresses
// the dashboard displays.
func (s *UserService) Stats() entity.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := entity.UserStats{Total: len(s.users)}
	for _, user := range s.users {
		if user.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if strings.HasSuffix(strings.ToLower(user.Email), ".org") {
			stats.OrgCount++
		}
	}
	if stats.Total > 0 {
		pct := float64(stats.OrgCount) / float64(stats.Total) * 100
		stats.OrgPercentage = math.Round(pct*100) / 100
	}
	return stats
}

// SeedDemo fills an empty store with n generated users for development:
// rotating cities, alternating .org/.com addresses and active flags. All
// demo accounts share the password "password123".
func (s *UserService) SeedDemo(n int) error {
	if s.Count() > 0 || n <= 0 {
		return nil
	}

	cities := []string{"Monterrey", "CDMX", "Guadalajara", "León"}
	hash, err := crypto.HashPassword("password123")
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		tld := ".com"
		if i%2 == 0 {
			tld = ".org"
		}
		email := fmt.Sprintf("user%d@example%s", i+1, tld)
		if _, err := s.create(fmt.Sprintf("User %d", i+1), email, cities[i%len(cities)], i%2 == 0, model.RoleUser, hash); err != nil {
			return err
		}
	}
	return nil
}

// findByIDLocked must be called with the write lock held.
func (s *UserService) findByIDLocked(id int64) *model.User {
	for _, user := range s.users {
		if user.Id == id {
			return user
		}
	}
	return nil
}
