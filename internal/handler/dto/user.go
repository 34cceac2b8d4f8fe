package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// ProfileFields are the optional profile attributes shared by register and
// update bodies. A nil field is left untouched; "" clears it.
type ProfileFields struct {
	Avatar          *string   `json:"avatar,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Company         *string   `json:"company,omitempty"`
	Title           *string   `json:"title,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Website         *string   `json:"website,omitempty"`
	LinkedIn        *string   `json:"linkedin,omitempty"`
	Industries      *[]string `json:"industries,omitempty"`
	InvestmentRange *string   `json:"investmentRange,omitempty"`
	FundingNeed     *string   `json:"fundingNeed,omitempty"`
	PortfolioSize   *int      `json:"portfolioSize,omitempty"`
}

// ToUpdate converts the profile fields to a model.UserUpdate.
func (p ProfileFields) ToUpdate() model.UserUpdate {
	return model.UserUpdate{
		Avatar:          p.Avatar,
		Bio:             p.Bio,
		Company:         p.Company,
		Title:           p.Title,
		Location:        p.Location,
		Website:         p.Website,
		LinkedIn:        p.LinkedIn,
		Industries:      p.Industries,
		InvestmentRange: p.InvestmentRange,
		FundingNeed:     p.FundingNeed,
		PortfolioSize:   p.PortfolioSize,
	}
}

// UpdateUserRequest represents the body of PUT/PATCH /api/users/{id}.
// Email, role and password are not editable here. An explicit
// "portfolioSize": null clears the portfolio size.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	ProfileFields

	ClearPortfolioSize bool `json:"-"`
}

// UnmarshalJSON decodes the body and notes an explicit null portfolioSize,
// which plain decoding cannot tell apart from an absent one.
func (r *UpdateUserRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateUserRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["portfolioSize"]
	r.ClearPortfolioSize = ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	return nil
}

// ToUpdate converts the request to a model.UserUpdate.
func (r UpdateUserRequest) ToUpdate() model.UserUpdate {
	upd := r.ProfileFields.ToUpdate()
	upd.FirstName = r.FirstName
	upd.LastName = r.LastName
	upd.ClearPortfolioSize = r.ClearPortfolioSize
	return upd
}

// UserResponse is a full public profile. It never carries password material.
type UserResponse struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Role            model.Role `json:"role"`
	Avatar          *string    `json:"avatar"`
	Bio             *string    `json:"bio"`
	Company         *string    `json:"company"`
	Title           *string    `json:"title"`
	Location        *string    `json:"location"`
	Website         *string    `json:"website"`
	LinkedIn        *string    `json:"linkedin"`
	Industries      []string   `json:"industries"`
	InvestmentRange *string    `json:"investmentRange"`
	FundingNeed     *string    `json:"fundingNeed"`
	PortfolioSize   *int       `json:"portfolioSize"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// UserSummary is the compact form embedded in requests, messages and
// connections.
type UserSummary struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      model.Role `json:"role"`
	Avatar    *string    `json:"avatar"`
	Company   *string    `json:"company"`
	Title     *string    `json:"title"`
	Location  *string    `json:"location"`
}

// UserEnvelope wraps a user as {"user": ...}.
type UserEnvelope struct {
	User *UserResponse `json:"user"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) *UserResponse {
	industries := u.Industries
	if industries == nil {
		industries = []string{}
	}
	return &UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		Avatar:          u.Avatar,
		Bio:             u.Bio,
		Company:         u.Company,
		Title:           u.Title,
		Location:        u.Location,
		Website:         u.Website,
		LinkedIn:        u.LinkedIn,
		Industries:      industries,
		InvestmentRange: u.InvestmentRange,
		FundingNeed:     u.FundingNeed,
		PortfolioSize:   u.PortfolioSize,
		CreatedAt:       u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users.
func ToUserResponses(users []*model.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// ToUserSummary returns nil for an unknown user.
func ToUserSummary(u *model.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Avatar:    u.Avatar,
		Company:   u.Company,
		Title:     u.Title,
		Location:  u.Location,
	}
}
