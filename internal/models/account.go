package models

import (
	"fmt"
	"time"
)

var _ Model = (*Account)(nil)

// Account is a creator identity bound to one platform and one persistent
// browser profile directory. The orchestrator reads the platform, profile
// directory, and login flag to decide whether to attempt automation.
type Account struct {
	id            string
	sequence      int
	platform      Platform
	displayName   string
	profileDir    string
	loggedIn      bool
	lastCheckedAt *time.Time
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewAccount creates an account with the current time for lifecycle timestamps.
// The ID is assigned by the repository on create.
func NewAccount(sequence int, platform Platform, displayName, profileDir string) *Account {
	now := time.Now()
	return &Account{
		sequence:    sequence,
		platform:    platform,
		displayName: displayName,
		profileDir:  profileDir,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (a *Account) ID() string                { return a.id }
func (a *Account) Sequence() int             { return a.sequence }
func (a *Account) Platform() Platform        { return a.platform }
func (a *Account) DisplayName() string       { return a.displayName }
func (a *Account) ProfileDir() string        { return a.profileDir }
func (a *Account) LoggedIn() bool            { return a.loggedIn }
func (a *Account) LastCheckedAt() *time.Time { return a.lastCheckedAt }
func (a *Account) CreatedAt() time.Time      { return a.createdAt }
func (a *Account) UpdatedAt() time.Time      { return a.updatedAt }
func (a *Account) DeletedAt() *time.Time     { return a.deletedAt }

func (a *Account) SetID(id string)               { a.id = id }
func (a *Account) SetSequence(sequence int)      { a.sequence = sequence }
func (a *Account) SetDisplayName(name string)    { a.displayName = name }
func (a *Account) SetCreatedAt(t time.Time)      { a.createdAt = t }
func (a *Account) SetUpdatedAt(t time.Time)      { a.updatedAt = t }
func (a *Account) SetDeletedAt(t *time.Time)     { a.deletedAt = t }
func (a *Account) SetLastCheckedAt(t *time.Time) { a.lastCheckedAt = t }

// SetLoggedIn records a login check result and its timestamp.
func (a *Account) SetLoggedIn(loggedIn bool, checkedAt time.Time) {
	a.loggedIn = loggedIn
	a.lastCheckedAt = &checkedAt
}

// Validate checks that the account has a platform, display name, and profile directory.
func (a *Account) Validate() error {
	if a.platform == "" {
		return fmt.Errorf("account platform is required")
	}
	if a.displayName == "" {
		return fmt.Errorf("account display name is required")
	}
	if a.profileDir == "" {
		return fmt.Errorf("account profile directory is required")
	}
	return nil
}
