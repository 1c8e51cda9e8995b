package policy

import (
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

func admin() *Actor {
	return &Actor{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}
}

func regular() *Actor {
	return &Actor{ID: uuid.New(), Username: "alice", Role: models.RoleUser}
}

// TestAuthorizationMatrix walks the full actor/action grid from the
// authorization contract.
func TestAuthorizationMatrix(t *testing.T) {
	someAuthor := uuid.New()

	tests := []struct {
		name     string
		check    func() error
		wantKind apperr.Kind // 0 means allowed
	}{
		{"anonymous cannot create posts", func() error { return CanManagePosts(nil) }, apperr.KindForbidden},
		{"user cannot create posts", func() error { return CanManagePosts(regular()) }, apperr.KindForbidden},
		{"admin can create posts", func() error { return CanManagePosts(admin()) }, 0},

		{"anonymous cannot manage categories", func() error { return CanManageCategories(nil) }, apperr.KindForbidden},
		{"user cannot manage categories", func() error { return CanManageCategories(regular()) }, apperr.KindForbidden},
		{"admin can manage categories", func() error { return CanManageCategories(admin()) }, 0},

		{"anonymous cannot comment", func() error { return CanCreateComment(nil) }, apperr.KindUnauthenticated},
		{"user can comment", func() error { return CanCreateComment(regular()) }, 0},
		{"admin can comment", func() error { return CanCreateComment(admin()) }, 0},

		{"user cannot delete another user's comment", func() error { return CanModifyComment(regular(), someAuthor) }, apperr.KindForbidden},
		{"admin can delete any comment", func() error { return CanModifyComment(admin(), someAuthor) }, 0},
		{"anonymous cannot modify comments", func() error { return CanModifyComment(nil, someAuthor) }, apperr.KindUnauthenticated},

		{"user cannot moderate", func() error { return CanModerateComments(regular()) }, apperr.KindForbidden},
		{"admin can moderate", func() error { return CanModerateComments(admin()) }, 0},

		{"user cannot manage users", func() error { return CanManageUsers(regular()) }, apperr.KindForbidden},
		{"admin can manage users", func() error { return CanManageUsers(admin()) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantKind == 0 {
				if err != nil {
					t.Errorf("expected allow, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected denial, got allow")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestAuthorOwnComment(t *testing.T) {
	a := regular()
	if err := CanModifyComment(a, a.ID); err != nil {
		t.Errorf("author should modify own comment, got %v", err)
	}
}

func TestCanViewPost(t *testing.T) {
	published := &models.Post{Status: models.PostStatusPublished}
	draft := &models.Post{Status: models.PostStatusDraft}

	if !CanViewPost(nil, published) {
		t.Error("anonymous should view published posts")
	}
	if CanViewPost(nil, draft) {
		t.Error("anonymous should not view drafts")
	}
	if CanViewPost(regular(), draft) {
		t.Error("regular user should not view drafts")
	}
	if !CanViewPost(admin(), draft) {
		t.Error("admin should view drafts")
	}
}

func TestCanListAllStatuses(t *testing.T) {
	if CanListAllStatuses(nil) || CanListAllStatuses(regular()) {
		t.Error("only admins may disable the status filter")
	}
	if !CanListAllStatuses(admin()) {
		t.Error("admin may disable the status filter")
	}
}
