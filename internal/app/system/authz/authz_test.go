package authz_test

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	role, name, id, ok := authz.UserCtx(req)
	if ok {
		t.Fatal("expected ok=false for anonymous request")
	}
	if role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("got role=%q name=%q id=%v", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithUser(req, &auth.SessionUser{ID: "not-a-hex-id", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("malformed session user ID must fail closed")
	}
}

func TestUserCtx_Valid(t *testing.T) {
	oid := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithUser(req, &auth.SessionUser{ID: oid.Hex(), Name: "Dana", Role: "Admin"})

	role, name, id, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("role not lowercased: %q", role)
	}
	if name != "Dana" || id != oid {
		t.Errorf("got name=%q id=%v", name, id)
	}
}

func TestRoleHelpers(t *testing.T) {
	oid := primitive.NewObjectID().Hex()

	tests := []struct {
		role       string
		admin      bool
		instructor bool
		parent     bool
		host       bool
	}{
		{"admin", true, false, false, false},
		{"instructor", false, true, false, false},
		{"parent", false, false, true, false},
		{"host", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req = auth.WithUser(req, &auth.SessionUser{ID: oid, Role: tt.role})

			if got := authz.IsAdmin(req); got != tt.admin {
				t.Errorf("IsAdmin=%v", got)
			}
			if got := authz.IsInstructor(req); got != tt.instructor {
				t.Errorf("IsInstructor=%v", got)
			}
			if got := authz.IsParent(req); got != tt.parent {
				t.Errorf("IsParent=%v", got)
			}
			if got := authz.IsHost(req); got != tt.host {
				t.Errorf("IsHost=%v", got)
			}
		})
	}
}

func TestCanManageKids(t *testing.T) {
	oid := primitive.NewObjectID().Hex()

	allowed := map[string]bool{
		"admin":      true,
		"instructor": true,
		"parent":     false,
		"host":       false,
	}
	for role, want := range allowed {
		req := httptest.NewRequest("GET", "/", nil)
		req = auth.WithUser(req, &auth.SessionUser{ID: oid, Role: role})
		if got := authz.CanManageKids(req); got != want {
			t.Errorf("CanManageKids(%s)=%v, want %v", role, got, want)
		}
	}

	req := httptest.NewRequest("GET", "/", nil)
	if authz.CanManageKids(req) {
		t.Error("anonymous request can manage kids")
	}
}
