// Package storetest is a conformance suite every repository.Store must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

// Factory returns an empty store. It is called once per subtest and should
// register its own cleanup.
type Factory func(t *testing.T) repository.Store

// Run executes the full suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(*testing.T, repository.Store)
	}{
		{"CreateUser_AssignsIDs", testCreateUserAssignsIDs},
		{"CreateUser_PasswordRoundTrip", testPasswordRoundTrip},
		{"CreateUser_DuplicateEmail", testDuplicateEmail},
		{"CreateUser_ConcurrentDuplicateEmail", testConcurrentDuplicateEmail},
		{"GetUser_NotFound", testGetUserNotFound},
		{"ListUsersByRole", testListUsersByRole},
		{"ListUsersByIDs", testListUsersByIDs},
		{"UpdateUser_Partial", testUpdateUserPartial},
		{"UpdateUser_NotFound", testUpdateUserNotFound},
		{"Request_DefaultsToPending", testRequestDefaultsToPending},
		{"Request_StatusUpdateIdempotent", testRequestStatusIdempotent},
		{"Request_UpdateNotFound", testRequestUpdateNotFound},
		{"Request_DirectionFilter", testRequestDirectionFilter},
		{"Request_Between", testRequestBetween},
		{"Request_DuplicatePending", testRequestDuplicatePending},
		{"Message_Conversation", testMessageConversation},
		{"Message_Symmetric", testMessageSymmetric},
		{"Message_NotFound", testMessageNotFound},
		{"Connection_AreConnected", testAreConnected},
		{"Connection_DuplicateEitherOrder", testConnectionDuplicate},
		{"Connection_ConcurrentDuplicate", testConnectionConcurrentDuplicate},
		{"Connection_ListForUser", testListConnectionsForUser},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func mustCreateUser(t *testing.T, s repository.Store, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func testCreateUserAssignsIDs(t *testing.T, s repository.Store) {
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	if a.ID == 0 || b.ID == 0 {
		t.Fatal("CreateUser should assign ids")
	}
	if b.ID <= a.ID {
		t.Errorf("ids should increase: a=%d b=%d", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
	if a.Industries == nil {
		t.Error("Industries should be normalized to an empty slice")
	}
}

func testPasswordRoundTrip(t *testing.T, s repository.Store) {
	ctx := context.Background()
	user := &model.User{
		Email:         "founder@x.com",
		PasswordHash:  "$argon2id$v=19$m=65536,t=3,p=4$abc$def",
		FirstName:     "Alex",
		LastName:      "Chen",
		Role:          model.RoleEntrepreneur,
		Bio:           ptr("Building fintech"),
		Industries:    []string{"FinTech", "B2B"},
		FundingNeed:   ptr("$5M Series A"),
		PortfolioSize: ptr(3),
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "founder@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %d, want %d", got.ID, user.ID)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if got.Bio == nil || *got.Bio != "Building fintech" {
		t.Errorf("Bio = %v, want Building fintech", got.Bio)
	}
	if len(got.Industries) != 2 || got.Industries[0] != "FinTech" || got.Industries[1] != "B2B" {
		t.Errorf("Industries = %v, want [FinTech B2B]", got.Industries)
	}
	if got.PortfolioSize == nil || *got.PortfolioSize != 3 {
		t.Errorf("PortfolioSize = %v, want 3", got.PortfolioSize)
	}
	if got.Company != nil {
		t.Errorf("Company = %q, want nil", *got.Company)
	}
}

func testDuplicateEmail(t *testing.T, s repository.Store) {
	mustCreateUser(t, s, "dup@x.com", model.RoleInvestor)

	err := s.CreateUser(context.Background(), &model.User{
		Email: "dup@x.com", PasswordHash: "h", FirstName: "B", LastName: "B", Role: model.RoleEntrepreneur,
	})
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func testConcurrentDuplicateEmail(t *testing.T, s repository.Store) {
	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.CreateUser(context.Background(), &model.User{
				Email:        "race@x.com",
				PasswordHash: "h",
				FirstName:    fmt.Sprintf("U%d", i),
				LastName:     "Race",
				Role:         model.RoleInvestor,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrEmailExists):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != workers-1 {
		t.Errorf("got %d successes and %d conflicts, want 1 and %d", ok, conflicts, workers-1)
	}
}

func testGetUserNotFound(t *testing.T, s repository.Store) {
	ctx := context.Background()
	if _, err := s.GetUser(ctx, 999); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("GetUser(999) error = %v, want ErrUserNotFound", err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@x.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("GetUserByEmail error = %v, want ErrUserNotFound", err)
	}
}

func testListUsersByRole(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	investors, err := s.ListUsersByRole(ctx, model.RoleInvestor)
	if err != nil {
		t.Fatalf("ListUsersByRole failed: %v", err)
	}
	if len(investors) != 1 || investors[0].ID != a.ID {
		t.Errorf("investors = %v, want only %d", userIDs(investors), a.ID)
	}

	got, err := s.GetUserByEmail(ctx, "b@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("GetUserByEmail(b) = %d, want %d", got.ID, b.ID)
	}

	all, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Errorf("ListUsers = %v, want [%d %d]", userIDs(all), a.ID, b.ID)
	}
}

func testListUsersByIDs(t *testing.T, s repository.Store) {
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)
	mustCreateUser(t, s, "c@x.com", model.RoleEntrepreneur)

	got, err := s.ListUsersByIDs(context.Background(), []int64{b.ID, 9999, a.ID, b.ID})
	if err != nil {
		t.Fatalf("ListUsersByIDs failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Errorf("ListUsersByIDs = %v, want [%d %d]", userIDs(got), a.ID, b.ID)
	}

	empty, err := s.ListUsersByIDs(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("ListUsersByIDs(nil) = %v, %v; want empty", empty, err)
	}
}

func testUpdateUserPartial(t *testing.T, s repository.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "edit@x.com", model.RoleInvestor)

	updated, err := s.UpdateUser(ctx, user.ID, model.UserUpdate{
		Company:    ptr("Rodriguez Capital"),
		Industries: &[]string{"SaaS"},
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Company == nil || *updated.Company != "Rodriguez Capital" {
		t.Errorf("Company = %v, want Rodriguez Capital", updated.Company)
	}
	if updated.FirstName != "Test" {
		t.Errorf("FirstName changed to %q", updated.FirstName)
	}

	// Empty string clears the field.
	cleared, err := s.UpdateUser(ctx, user.ID, model.UserUpdate{Company: ptr("")})
	if err != nil {
		t.Fatalf("UpdateUser (clear) failed: %v", err)
	}
	if cleared.Company != nil {
		t.Errorf("Company should be cleared, got %q", *cleared.Company)
	}

	sized, err := s.UpdateUser(ctx, user.ID, model.UserUpdate{PortfolioSize: ptr(7)})
	if err != nil {
		t.Fatalf("UpdateUser (portfolio) failed: %v", err)
	}
	if sized.PortfolioSize == nil || *sized.PortfolioSize != 7 {
		t.Errorf("PortfolioSize = %v, want 7", sized.PortfolioSize)
	}
	unsized, err := s.UpdateUser(ctx, user.ID, model.UserUpdate{ClearPortfolioSize: true})
	if err != nil {
		t.Fatalf("UpdateUser (clear portfolio) failed: %v", err)
	}
	if unsized.PortfolioSize != nil {
		t.Errorf("PortfolioSize should be cleared, got %d", *unsized.PortfolioSize)
	}

	reread, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if len(reread.Industries) != 1 || reread.Industries[0] != "SaaS" {
		t.Errorf("Industries = %v, want [SaaS]", reread.Industries)
	}
}

func testUpdateUserNotFound(t *testing.T, s repository.Store) {
	_, err := s.UpdateUser(context.Background(), 999, model.UserUpdate{Bio: ptr("x")})
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("UpdateUser(999) error = %v, want ErrUserNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Collaboration requests
// ---------------------------------------------------------------------------

func testRequestDefaultsToPending(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	req := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID}
	if err := s.CreateCollaborationRequest(ctx, req); err != nil {
		t.Fatalf("CreateCollaborationRequest failed: %v", err)
	}

	got, err := s.GetCollaborationRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetCollaborationRequest failed: %v", err)
	}
	if got.Status != model.RequestPending {
		t.Errorf("Status = %s, want pending", got.Status)
	}
	if got.Message != nil {
		t.Errorf("Message = %q, want nil", *got.Message)
	}
}

func testRequestStatusIdempotent(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	req := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID, Message: ptr("Let's talk")}
	if err := s.CreateCollaborationRequest(ctx, req); err != nil {
		t.Fatalf("CreateCollaborationRequest failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		updated, err := s.UpdateCollaborationRequestStatus(ctx, req.ID, model.RequestAccepted)
		if err != nil {
			t.Fatalf("UpdateCollaborationRequestStatus (attempt %d) failed: %v", i+1, err)
		}
		if updated.Status != model.RequestAccepted {
			t.Errorf("Status = %s, want accepted", updated.Status)
		}
	}

	got, err := s.GetCollaborationRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetCollaborationRequest failed: %v", err)
	}
	if got.Status != model.RequestAccepted {
		t.Errorf("Status after reread = %s, want accepted", got.Status)
	}
	if got.Message == nil || *got.Message != "Let's talk" {
		t.Errorf("Message = %v, want Let's talk", got.Message)
	}
}

func testRequestUpdateNotFound(t *testing.T, s repository.Store) {
	ctx := context.Background()
	if _, err := s.UpdateCollaborationRequestStatus(ctx, 999, model.RequestRejected); !errors.Is(err, repository.ErrRequestNotFound) {
		t.Errorf("update error = %v, want ErrRequestNotFound", err)
	}
	if _, err := s.GetCollaborationRequest(ctx, 999); !errors.Is(err, repository.ErrRequestNotFound) {
		t.Errorf("get error = %v, want ErrRequestNotFound", err)
	}
}

func testRequestDirectionFilter(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)
	c := mustCreateUser(t, s, "c@x.com", model.RoleInvestor)

	base := time.Now().UTC().Truncate(time.Second)
	incoming := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID, CreatedAt: base}
	outgoing := &model.CollaborationRequest{FromUserID: b.ID, ToUserID: c.ID, CreatedAt: base.Add(time.Second)}
	unrelated := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: c.ID, CreatedAt: base.Add(2 * time.Second)}
	for _, r := range []*model.CollaborationRequest{incoming, outgoing, unrelated} {
		if err := s.CreateCollaborationRequest(ctx, r); err != nil {
			t.Fatalf("CreateCollaborationRequest failed: %v", err)
		}
	}

	tests := []struct {
		dir  model.RequestDirection
		want []int64
	}{
		{model.DirectionIncoming, []int64{incoming.ID}},
		{model.DirectionOutgoing, []int64{outgoing.ID}},
		{model.DirectionAll, []int64{outgoing.ID, incoming.ID}}, // newest first
	}

	for _, tt := range tests {
		got, err := s.ListCollaborationRequests(ctx, model.CollaborationRequestFilter{UserID: b.ID, Direction: tt.dir})
		if err != nil {
			t.Fatalf("ListCollaborationRequests(%s) failed: %v", tt.dir, err)
		}
		if ids := requestIDs(got); !equalIDs(ids, tt.want) {
			t.Errorf("ListCollaborationRequests(%s) = %v, want %v", tt.dir, ids, tt.want)
		}
	}

	if _, err := s.UpdateCollaborationRequestStatus(ctx, incoming.ID, model.RequestRejected); err != nil {
		t.Fatalf("UpdateCollaborationRequestStatus failed: %v", err)
	}
	pending, err := s.ListCollaborationRequests(ctx, model.CollaborationRequestFilter{
		UserID: b.ID, Direction: model.DirectionAll, Status: model.RequestPending,
	})
	if err != nil {
		t.Fatalf("ListCollaborationRequests(pending) failed: %v", err)
	}
	if ids := requestIDs(pending); !equalIDs(ids, []int64{outgoing.ID}) {
		t.Errorf("pending = %v, want [%d]", ids, outgoing.ID)
	}
}

func testRequestBetween(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)
	c := mustCreateUser(t, s, "c@x.com", model.RoleInvestor)

	ab := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID}
	ba := &model.CollaborationRequest{FromUserID: b.ID, ToUserID: a.ID}
	ac := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: c.ID}
	for _, r := range []*model.CollaborationRequest{ab, ba, ac} {
		if err := s.CreateCollaborationRequest(ctx, r); err != nil {
			t.Fatalf("CreateCollaborationRequest failed: %v", err)
		}
	}

	for _, pair := range [][2]int64{{a.ID, b.ID}, {b.ID, a.ID}} {
		got, err := s.ListCollaborationRequestsBetween(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("ListCollaborationRequestsBetween failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("between(%d,%d) returned %d requests, want 2", pair[0], pair[1], len(got))
		}
	}
}

func testRequestDuplicatePending(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	first := &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID}
	if err := s.CreateCollaborationRequest(ctx, first); err != nil {
		t.Fatalf("CreateCollaborationRequest failed: %v", err)
	}

	err := s.CreateCollaborationRequest(ctx, &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID})
	if !errors.Is(err, repository.ErrRequestExists) {
		t.Fatalf("duplicate pending error = %v, want ErrRequestExists", err)
	}

	// The reverse direction is a different request.
	if err := s.CreateCollaborationRequest(ctx, &model.CollaborationRequest{FromUserID: b.ID, ToUserID: a.ID}); err != nil {
		t.Fatalf("reverse request failed: %v", err)
	}

	// Once answered, a new pending request may be sent.
	if _, err := s.UpdateCollaborationRequestStatus(ctx, first.ID, model.RequestRejected); err != nil {
		t.Fatalf("UpdateCollaborationRequestStatus failed: %v", err)
	}
	if err := s.CreateCollaborationRequest(ctx, &model.CollaborationRequest{FromUserID: a.ID, ToUserID: b.ID}); err != nil {
		t.Fatalf("request after rejection failed: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func testMessageConversation(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)
	c := mustCreateUser(t, s, "c@x.com", model.RoleInvestor)

	hi := &model.Message{FromUserID: a.ID, ToUserID: b.ID, Content: "hi"}
	hey := &model.Message{FromUserID: b.ID, ToUserID: a.ID, Content: "hey"}
	other := &model.Message{FromUserID: a.ID, ToUserID: c.ID, Content: "elsewhere"}
	for _, m := range []*model.Message{hi, hey, other} {
		if err := s.CreateMessage(ctx, m); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	got, err := s.ListMessagesBetween(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("ListMessagesBetween failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].Content != "hi" || got[1].Content != "hey" {
		t.Errorf("order = [%s %s], want [hi hey]", got[0].Content, got[1].Content)
	}

	stored, err := s.GetMessage(ctx, hey.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if stored.FromUserID != b.ID || stored.ToUserID != a.ID {
		t.Errorf("GetMessage returned %d->%d, want %d->%d", stored.FromUserID, stored.ToUserID, b.ID, a.ID)
	}
}

func testMessageSymmetric(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	// Insert out of chronological order; listing must sort by CreatedAt.
	base := time.Now().UTC().Truncate(time.Second)
	late := &model.Message{FromUserID: a.ID, ToUserID: b.ID, Content: "second", CreatedAt: base.Add(time.Minute)}
	early := &model.Message{FromUserID: b.ID, ToUserID: a.ID, Content: "first", CreatedAt: base}
	for _, m := range []*model.Message{late, early} {
		if err := s.CreateMessage(ctx, m); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	ab, err := s.ListMessagesBetween(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("ListMessagesBetween(a,b) failed: %v", err)
	}
	ba, err := s.ListMessagesBetween(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("ListMessagesBetween(b,a) failed: %v", err)
	}

	if len(ab) != 2 || len(ba) != 2 {
		t.Fatalf("lengths = %d, %d; want 2, 2", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].ID != ba[i].ID {
			t.Errorf("position %d: %d vs %d", i, ab[i].ID, ba[i].ID)
		}
	}
	if ab[0].ID != early.ID {
		t.Errorf("first message = %d, want %d", ab[0].ID, early.ID)
	}
}

func testMessageNotFound(t *testing.T, s repository.Store) {
	if _, err := s.GetMessage(context.Background(), 999); !errors.Is(err, repository.ErrMessageNotFound) {
		t.Errorf("GetMessage(999) error = %v, want ErrMessageNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// Connections
// ---------------------------------------------------------------------------

func testAreConnected(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	for _, pair := range [][2]int64{{a.ID, b.ID}, {b.ID, a.ID}} {
		connected, err := s.AreConnected(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreConnected failed: %v", err)
		}
		if connected {
			t.Errorf("AreConnected(%d,%d) = true before creation", pair[0], pair[1])
		}
	}

	conn := &model.Connection{UserID1: a.ID, UserID2: b.ID}
	if err := s.CreateConnection(ctx, conn); err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}

	for _, pair := range [][2]int64{{a.ID, b.ID}, {b.ID, a.ID}} {
		connected, err := s.AreConnected(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreConnected failed: %v", err)
		}
		if !connected {
			t.Errorf("AreConnected(%d,%d) = false after creation", pair[0], pair[1])
		}
	}

	got, err := s.GetConnection(ctx, conn.ID)
	if err != nil {
		t.Fatalf("GetConnection failed: %v", err)
	}
	if got.UserID1 != a.ID || got.UserID2 != b.ID {
		t.Errorf("GetConnection = %d/%d, want %d/%d", got.UserID1, got.UserID2, a.ID, b.ID)
	}
	if _, err := s.GetConnection(ctx, 999); !errors.Is(err, repository.ErrConnectionNotFound) {
		t.Errorf("GetConnection(999) error = %v, want ErrConnectionNotFound", err)
	}
}

func testConnectionDuplicate(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	if err := s.CreateConnection(ctx, &model.Connection{UserID1: a.ID, UserID2: b.ID}); err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}

	for _, c := range []*model.Connection{
		{UserID1: a.ID, UserID2: b.ID},
		{UserID1: b.ID, UserID2: a.ID},
	} {
		if err := s.CreateConnection(ctx, c); !errors.Is(err, repository.ErrConnectionExists) {
			t.Errorf("CreateConnection(%d,%d) error = %v, want ErrConnectionExists", c.UserID1, c.UserID2, err)
		}
	}
}

func testConnectionConcurrentDuplicate(t *testing.T, s repository.Store) {
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)

	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := &model.Connection{UserID1: a.ID, UserID2: b.ID}
			if i%2 == 1 {
				conn.UserID1, conn.UserID2 = b.ID, a.ID
			}
			errs <- s.CreateConnection(context.Background(), conn)
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrConnectionExists):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("got %d successful inserts, want 1", ok)
	}
}

func testListConnectionsForUser(t *testing.T, s repository.Store) {
	ctx := context.Background()
	a := mustCreateUser(t, s, "a@x.com", model.RoleInvestor)
	b := mustCreateUser(t, s, "b@x.com", model.RoleEntrepreneur)
	c := mustCreateUser(t, s, "c@x.com", model.RoleInvestor)

	ab := &model.Connection{UserID1: a.ID, UserID2: b.ID}
	ca := &model.Connection{UserID1: c.ID, UserID2: a.ID}
	bc := &model.Connection{UserID1: b.ID, UserID2: c.ID}
	for _, conn := range []*model.Connection{ab, ca, bc} {
		if err := s.CreateConnection(ctx, conn); err != nil {
			t.Fatalf("CreateConnection failed: %v", err)
		}
	}

	got, err := s.ListConnectionsForUser(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListConnectionsForUser failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != ab.ID || got[1].ID != ca.ID {
		t.Errorf("connections for a = %v, want [%d %d]", connectionIDs(got), ab.ID, ca.ID)
	}
	if got[1].OtherUserID(a.ID) != c.ID {
		t.Errorf("other side of %d = %d, want %d", got[1].ID, got[1].OtherUserID(a.ID), c.ID)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func userIDs(users []*model.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func requestIDs(reqs []*model.CollaborationRequest) []int64 {
	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}

func connectionIDs(conns []*model.Connection) []int64 {
	ids := make([]int64, len(conns))
	for i, c := range conns {
		ids[i] = c.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
