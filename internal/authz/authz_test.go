package authz

import (
	"testing"

	"pethub/internal/ports/auth"
)

var (
	owner    = Principal{UserID: "user-1", Role: auth.RoleUser}
	stranger = Principal{UserID: "user-2", Role: auth.RoleUser}
	admin    = Principal{UserID: "admin-1", Role: auth.RoleAdmin}
)

func TestCanAccessPet(t *testing.T) {
	cases := []struct {
		name  string
		p     Principal
		owner string
		want  bool
	}{
		{"owner can access", owner, "user-1", true},
		{"stranger cannot", stranger, "user-1", false},
		{"admin bypasses ownership", admin, "user-1", true},
		{"empty principal id never matches empty owner", Principal{Role: auth.RoleUser}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessPet(tc.p, tc.owner); got != tc.want {
				t.Fatalf("CanAccessPet(%+v, %q) = %v, want %v", tc.p, tc.owner, got, tc.want)
			}
		})
	}
}

func TestAppointmentRules_OwnerCanCreateAndReadButNotManage(t *testing.T) {
	if !CanCreateAppointment(owner, "user-1") {
		t.Fatalf("owner should create appointments for their pet")
	}
	if !CanReadAppointment(owner, "user-1") {
		t.Fatalf("owner should read appointments of their pet")
	}
	if CanManageAppointment(owner) {
		t.Fatalf("owner must not update/delete appointments")
	}
}

func TestAppointmentRules_StrangerDeniedEverywhere(t *testing.T) {
	if CanCreateAppointment(stranger, "user-1") {
		t.Fatalf("stranger should not create appointments for another owner's pet")
	}
	if CanReadAppointment(stranger, "user-1") {
		t.Fatalf("stranger should not read another owner's appointments")
	}
	if CanManageAppointment(stranger) {
		t.Fatalf("stranger must not manage appointments")
	}
}

func TestAppointmentRules_AdminAllowedEverywhere(t *testing.T) {
	if !CanCreateAppointment(admin, "user-1") {
		t.Fatalf("admin should create appointments for any pet")
	}
	if !CanReadAppointment(admin, "user-1") {
		t.Fatalf("admin should read any appointment")
	}
	if !CanManageAppointment(admin) {
		t.Fatalf("admin should manage appointments")
	}
}

func TestOwnerFilter(t *testing.T) {
	if ownerID, all := OwnerFilter(admin); !all || ownerID != "" {
		t.Fatalf("admin filter = (%q, %v), want (\"\", true)", ownerID, all)
	}
	if ownerID, all := OwnerFilter(owner); all || ownerID != "user-1" {
		t.Fatalf("user filter = (%q, %v), want (\"user-1\", false)", ownerID, all)
	}
}
