package authz

import "testing"

func TestStaticAuthorizer_HasPermission(t *testing.T) {
	a := NewStaticAuthorizer(map[uint64][]string{
		1: {"block.admin", "block.bypass"},
		2: {"block.bypass"},
	})

	if !a.HasPermission(1, "block.admin") {
		t.Error("expected actor 1 to hold block.admin")
	}
	if a.HasPermission(2, "block.admin") {
		t.Error("expected actor 2 to lack block.admin")
	}
	if a.HasPermission(3, "block.bypass") {
		t.Error("expected unknown actor to hold nothing")
	}
}

func TestStaticAuthorizer_GrantAndRevoke(t *testing.T) {
	a := NewStaticAuthorizer(nil)

	a.Grant(7, "block.admin")
	if !a.HasPermission(7, "block.admin") {
		t.Error("expected permission after grant")
	}

	a.Revoke(7, "block.admin")
	if a.HasPermission(7, "block.admin") {
		t.Error("expected permission gone after revoke")
	}

	// Revoking from an unknown actor is a no-op.
	a.Revoke(99, "block.admin")
}
