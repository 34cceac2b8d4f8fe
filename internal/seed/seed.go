// Package seed populates an empty store with sample investors, entrepreneurs
// and the conversations between them.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

// DefaultPassword is the password of every sample account.
const DefaultPassword = "password123"

// ErrAlreadySeeded is returned when the sample users are already present.
var ErrAlreadySeeded = errors.New("store already seeded")

// Result reports what Run inserted.
type Result struct {
	Users       []*model.User
	Requests    []*model.CollaborationRequest
	Messages    []*model.Message
	Connections []*model.Connection
}

type sampleUser struct {
	email, first, last string
	role               model.Role
	avatar, bio        string
	company, title     string
	location, website  string
	linkedin           string
	industries         []string
	investmentRange    string
	fundingNeed        string
	portfolioSize      int
}

var sampleUsers = []sampleUser{
	{
		email: "michael.rodriguez@example.com", first: "Michael", last: "Rodriguez", role: model.RoleInvestor,
		avatar:          "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-4.0.3&auto=format&fit=crop&w=150&h=150",
		bio:             "Experienced venture capitalist with 15+ years in tech investments. Focus on B2B SaaS and fintech startups.",
		company:         "Rodriguez Capital",
		title:           "Senior Partner",
		location:        "San Francisco, CA",
		website:         "www.michaelrodriguez.vc",
		linkedin:        "michael-rodriguez-vc",
		industries:      []string{"FinTech", "SaaS", "B2B"},
		investmentRange: "$2M - $10M",
		portfolioSize:   32,
	},
	{
		email: "sarah.kim@example.com", first: "Sarah", last: "Kim", role: model.RoleInvestor,
		avatar:          "https://images.unsplash.com/photo-1494790108755-2616b612b5c5?ixlib=rb-4.0.3&auto=format&fit=crop&w=150&h=150",
		bio:             "Focus on healthcare and biotech innovations. Active mentor for early-stage companies.",
		company:         "Angel Network",
		title:           "Managing Director",
		location:        "Boston, MA",
		linkedin:        "sarah-kim-angel",
		industries:      []string{"Healthcare", "Biotech"},
		investmentRange: "$500K - $5M",
		portfolioSize:   18,
	},
	{
		email: "david.chang@example.com", first: "David", last: "Chang", role: model.RoleInvestor,
		avatar:          "https://images.unsplash.com/photo-1560250097-0b93528c311a?ixlib=rb-4.0.3&auto=format&fit=crop&w=150&h=150",
		bio:             "Invests in consumer tech and e-commerce platforms. Portfolio includes 15+ successful exits.",
		company:         "Chang Ventures",
		title:           "Founder & Managing Partner",
		location:        "Los Angeles, CA",
		website:         "www.changventures.com",
		linkedin:        "david-chang-ventures",
		industries:      []string{"E-commerce", "Consumer Tech"},
		investmentRange: "$1M - $15M",
		portfolioSize:   25,
	},
	{
		email: "alex.chen@example.com", first: "Alex", last: "Chen", role: model.RoleEntrepreneur,
		avatar:      "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?ixlib=rb-4.0.3&auto=format&fit=crop&w=150&h=150",
		bio:         "Building the next generation of fintech solutions for small businesses. Former Goldman Sachs analyst with deep expertise in financial services.",
		company:     "PayFlow Solutions",
		title:       "CEO & Founder",
		location:    "San Francisco, CA",
		website:     "www.payflowsolutions.com",
		linkedin:    "alex-chen-payflow",
		industries:  []string{"FinTech", "B2B"},
		fundingNeed: "$5M Series A",
	},
	{
		email: "lisa.park@example.com", first: "Lisa", last: "Park", role: model.RoleEntrepreneur,
		avatar:      "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?ixlib=rb-4.0.3&auto=format&fit=crop&w=150&h=150",
		bio:         "Revolutionizing healthcare with AI-powered diagnostic tools. MD from Harvard with 10+ years in medical research.",
		company:     "MedAI Diagnostics",
		title:       "Founder & CTO",
		location:    "Boston, MA",
		website:     "www.medai-diagnostics.com",
		linkedin:    "lisa-park-medai",
		industries:  []string{"Healthcare", "AI", "Biotech"},
		fundingNeed: "$3M Seed",
	},
	{
		email: "marcus.johnson@example.com", first: "Marcus", last: "Johnson", role: model.RoleEntrepreneur,
		avatar:      "https://images.unsplash.com/photo-1506794778202-cad84cf45f62?ixlib=rb-4.0.3&auto=format&fit=crop&w=150&h=150",
		bio:         "Creating sustainable e-commerce solutions that reduce environmental impact. Former Amazon product manager.",
		company:     "EcoCommerce",
		title:       "CEO",
		location:    "Seattle, WA",
		website:     "www.ecocommerce.io",
		linkedin:    "marcus-johnson-eco",
		industries:  []string{"E-commerce", "Sustainability"},
		fundingNeed: "$8M Series A",
	},
}

// Indexes into sampleUsers.
const (
	michael = 0
	sarah   = 1
	alex    = 3
	lisa    = 4
)

type sampleRequest struct {
	from, to int
	note     string
	status   model.RequestStatus
}

var sampleRequests = []sampleRequest{
	{michael, alex, "Interested in discussing your fintech solution. I have experience investing in similar B2B payment platforms.", model.RequestPending},
	{sarah, lisa, "Your AI diagnostic platform aligns perfectly with our healthcare investment thesis. Would love to connect.", model.RequestAccepted},
}

type sampleMessage struct {
	from, to int
	content  string
}

var sampleMessages = []sampleMessage{
	{sarah, lisa, "Hi Lisa, thanks for accepting my collaboration request. I'd love to learn more about your AI diagnostic platform."},
	{lisa, sarah, "Hi Sarah, great to connect! Our platform uses machine learning to analyze medical imaging with 95% accuracy. Would you be available for a call this week?"},
	{sarah, lisa, "That sounds very promising! I'm available Tuesday or Thursday afternoon. Should we schedule a 30-minute introductory call?"},
}

// Run inserts the sample data in a fixed order. It returns ErrAlreadySeeded
// when the first sample account already exists.
func Run(ctx context.Context, store repository.Store, hasher *auth.Hasher) (*Result, error) {
	return run(ctx, store, hasher, time.Now().UTC())
}

func run(ctx context.Context, store repository.Store, hasher *auth.Hasher, now time.Time) (*Result, error) {
	if _, err := store.GetUserByEmail(ctx, sampleUsers[0].email); err == nil {
		return nil, ErrAlreadySeeded
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check seed state: %w", err)
	}

	// All accounts share a password, so hash it once
	hash, err := hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	res := &Result{}
	base := now.Add(-24 * time.Hour)

	for i, s := range sampleUsers {
		u := s.toModel(hash, base.Add(time.Duration(i)*time.Minute))
		if err := store.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", s.email, err)
		}
		res.Users = append(res.Users, u)
	}

	for i, s := range sampleRequests {
		req := &model.CollaborationRequest{
			FromUserID: res.Users[s.from].ID,
			ToUserID:   res.Users[s.to].ID,
			Status:     s.status,
			Message:    &s.note,
			CreatedAt:  base.Add(time.Hour + time.Duration(i)*time.Minute),
		}
		if err := store.CreateCollaborationRequest(ctx, req); err != nil {
			return nil, fmt.Errorf("failed to seed collaboration request: %w", err)
		}
		res.Requests = append(res.Requests, req)

		if s.status == model.RequestAccepted {
			conn := &model.Connection{
				UserID1:   req.FromUserID,
				UserID2:   req.ToUserID,
				CreatedAt: req.CreatedAt.Add(30 * time.Minute),
			}
			if err := store.CreateConnection(ctx, conn); err != nil {
				return nil, fmt.Errorf("failed to seed connection: %w", err)
			}
			res.Connections = append(res.Connections, conn)
		}
	}

	for i, s := range sampleMessages {
		msg := &model.Message{
			FromUserID: res.Users[s.from].ID,
			ToUserID:   res.Users[s.to].ID,
			Content:    s.content,
			CreatedAt:  base.Add(2*time.Hour + time.Duration(i)*5*time.Minute),
		}
		if err := store.CreateMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("failed to seed message: %w", err)
		}
		res.Messages = append(res.Messages, msg)
	}

	return res, nil
}

func (s sampleUser) toModel(hash string, createdAt time.Time) *model.User {
	u := &model.User{
		Email:           s.email,
		PasswordHash:    hash,
		FirstName:       s.first,
		LastName:        s.last,
		Role:            s.role,
		Avatar:          optional(s.avatar),
		Bio:             optional(s.bio),
		Company:         optional(s.company),
		Title:           optional(s.title),
		Location:        optional(s.location),
		Website:         optional(s.website),
		LinkedIn:        optional(s.linkedin),
		Industries:      append([]string(nil), s.industries...),
		InvestmentRange: optional(s.investmentRange),
		FundingNeed:     optional(s.fundingNeed),
		CreatedAt:       createdAt,
	}
	if s.role == model.RoleInvestor {
		n := s.portfolioSize
		u.PortfolioSize = &n
	}
	return u
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
