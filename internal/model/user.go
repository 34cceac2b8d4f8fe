// Package model defines domain entities for the application.
package model

import (
	"slices"
	"strings"
	"time"
)

// Role is a user's directory category.
type Role string

const (
	RoleInvestor     Role = "investor"
	RoleEntrepreneur Role = "entrepreneur"
)

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleInvestor || r == RoleEntrepreneur
}

// User represents a registered investor or entrepreneur.
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Never serialize
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            Role      `json:"role"`
	Avatar          *string   `json:"avatar"`
	Bio             *string   `json:"bio"`
	Company         *string   `json:"company"`
	Title           *string   `json:"title"`
	Location        *string   `json:"location"`
	Website         *string   `json:"website"`
	LinkedIn        *string   `json:"linkedin"`
	Industries      []string  `json:"industries"`
	InvestmentRange *string   `json:"investmentRange"`
	FundingNeed     *string   `json:"fundingNeed"`
	PortfolioSize   *int      `json:"portfolioSize"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Avatar = cloneString(u.Avatar)
	c.Bio = cloneString(u.Bio)
	c.Company = cloneString(u.Company)
	c.Title = cloneString(u.Title)
	c.Location = cloneString(u.Location)
	c.Website = cloneString(u.Website)
	c.LinkedIn = cloneString(u.LinkedIn)
	c.InvestmentRange = cloneString(u.InvestmentRange)
	c.FundingNeed = cloneString(u.FundingNeed)
	c.Industries = slices.Clone(u.Industries)
	if u.PortfolioSize != nil {
		n := *u.PortfolioSize
		c.PortfolioSize = &n
	}
	return &c
}

// UserUpdate holds a partial profile edit. Nil fields are left untouched;
// a pointer to an empty string clears the field. PortfolioSize has no empty
// value, so ClearPortfolioSize resets it to NULL instead.
type UserUpdate struct {
	FirstName       *string
	LastName        *string
	Avatar          *string
	Bio             *string
	Company         *string
	Title           *string
	Location        *string
	Website         *string
	LinkedIn        *string
	Industries      *[]string
	InvestmentRange *string
	FundingNeed     *string
	PortfolioSize   *int

	ClearPortfolioSize bool // ignored when PortfolioSize is set
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Avatar == nil &&
		u.Bio == nil && u.Company == nil && u.Title == nil &&
		u.Location == nil && u.Website == nil && u.LinkedIn == nil &&
		u.Industries == nil && u.InvestmentRange == nil &&
		u.FundingNeed == nil && u.PortfolioSize == nil &&
		!u.ClearPortfolioSize
}

// Apply merges the update onto user in place.
func (u UserUpdate) Apply(user *User) {
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	applyOptional(&user.Avatar, u.Avatar)
	applyOptional(&user.Bio, u.Bio)
	applyOptional(&user.Company, u.Company)
	applyOptional(&user.Title, u.Title)
	applyOptional(&user.Location, u.Location)
	applyOptional(&user.Website, u.Website)
	applyOptional(&user.LinkedIn, u.LinkedIn)
	applyOptional(&user.InvestmentRange, u.InvestmentRange)
	applyOptional(&user.FundingNeed, u.FundingNeed)
	if u.Industries != nil {
		user.Industries = slices.Clone(*u.Industries)
	}
	switch {
	case u.PortfolioSize != nil:
		n := *u.PortfolioSize
		user.PortfolioSize = &n
	case u.ClearPortfolioSize:
		user.PortfolioSize = nil
	}
}

// NullIfEmpty maps "" to nil so optional columns are stored as NULL.
func NullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return cloneString(s)
}

func applyOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = NullIfEmpty(v)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
