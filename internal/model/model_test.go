package model

import (
	"testing"
	"time"
)

func TestRole_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		want bool
	}{
		{RoleInvestor, true},
		{RoleEntrepreneur, true},
		{"admin", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.role.IsValid(); got != tt.want {
			t.Errorf("Role(%q).IsValid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestPending, RequestAccepted, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestPending, true},
		{RequestAccepted, RequestAccepted, true},
		{RequestRejected, RequestRejected, true},
		{RequestAccepted, RequestRejected, false},
		{RequestRejected, RequestAccepted, false},
		{RequestAccepted, RequestPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRequestDirection_Matches(t *testing.T) {
	t.Parallel()

	req := &CollaborationRequest{FromUserID: 1, ToUserID: 2}

	tests := []struct {
		dir    RequestDirection
		userID int64
		want   bool
	}{
		{DirectionIncoming, 2, true},
		{DirectionIncoming, 1, false},
		{DirectionOutgoing, 1, true},
		{DirectionOutgoing, 2, false},
		{DirectionAll, 1, true},
		{DirectionAll, 2, true},
		{DirectionAll, 3, false},
	}

	for _, tt := range tests {
		if got := tt.dir.Matches(req, tt.userID); got != tt.want {
			t.Errorf("%s.Matches(user %d) = %v, want %v", tt.dir, tt.userID, got, tt.want)
		}
	}
}

func TestUserUpdate_Apply(t *testing.T) {
	t.Parallel()

	bio := "old bio"
	user := &User{FirstName: "Alex", Bio: &bio, Industries: []string{"FinTech"}}

	first := "Alexander"
	empty := ""
	industries := []string{"AI", "Health"}
	size := 4

	UserUpdate{
		FirstName:     &first,
		Bio:           &empty,
		Industries:    &industries,
		PortfolioSize: &size,
	}.Apply(user)

	if user.FirstName != "Alexander" {
		t.Errorf("FirstName = %s, want Alexander", user.FirstName)
	}
	if user.Bio != nil {
		t.Errorf("Bio should be cleared, got %q", *user.Bio)
	}
	if len(user.Industries) != 2 || user.Industries[0] != "AI" {
		t.Errorf("Industries = %v, want [AI Health]", user.Industries)
	}
	if user.PortfolioSize == nil || *user.PortfolioSize != 4 {
		t.Errorf("PortfolioSize = %v, want 4", user.PortfolioSize)
	}

	industries[0] = "mutated"
	if user.Industries[0] != "AI" {
		t.Error("Apply must copy the industries slice")
	}
}

func TestUserUpdate_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(UserUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	title := "CEO"
	if (UserUpdate{Title: &title}).IsEmpty() {
		t.Error("update with title should not be empty")
	}
	if (UserUpdate{ClearPortfolioSize: true}).IsEmpty() {
		t.Error("clearing the portfolio size should not be empty")
	}
}

func TestUserUpdate_ClearPortfolioSize(t *testing.T) {
	t.Parallel()

	size := 9
	user := &User{PortfolioSize: &size}

	UserUpdate{ClearPortfolioSize: true}.Apply(user)
	if user.PortfolioSize != nil {
		t.Fatalf("PortfolioSize = %d, want nil", *user.PortfolioSize)
	}

	next := 2
	UserUpdate{PortfolioSize: &next, ClearPortfolioSize: true}.Apply(user)
	if user.PortfolioSize == nil || *user.PortfolioSize != 2 {
		t.Errorf("PortfolioSize = %v, want an explicit value to win", user.PortfolioSize)
	}
}

func TestUser_Clone(t *testing.T) {
	t.Parallel()

	bio := "bio"
	size := 3
	u := &User{ID: 1, Bio: &bio, PortfolioSize: &size, Industries: []string{"SaaS"}}
	c := u.Clone()

	*c.Bio = "changed"
	*c.PortfolioSize = 9
	c.Industries[0] = "changed"

	if *u.Bio != "bio" || *u.PortfolioSize != 3 || u.Industries[0] != "SaaS" {
		t.Error("Clone shares state with the original")
	}
}

func TestConnection_OtherUserID(t *testing.T) {
	t.Parallel()

	c := &Connection{UserID1: 3, UserID2: 7}
	if got := c.OtherUserID(3); got != 7 {
		t.Errorf("OtherUserID(3) = %d, want 7", got)
	}
	if got := c.OtherUserID(7); got != 3 {
		t.Errorf("OtherUserID(7) = %d, want 3", got)
	}
	if NewPairKey(7, 3) != NewPairKey(3, 7) {
		t.Error("pair key must be order independent")
	}
}

func TestSession_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	s := &Session{ExpiresAt: now.Add(time.Minute)}

	if s.IsExpired(now) {
		t.Error("session should be live before expiry")
	}
	if !s.IsExpired(now.Add(time.Minute)) {
		t.Error("session should be expired at expiry")
	}
}
