package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"superadmin", RoleSuperAdmin, false},
		{" Admin ", RoleAdmin, false},
		{"SUPERADMIN", RoleSuperAdmin, false},
		{"owner", "", true},
		{"", "", true},
		{"super admin", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitized(t *testing.T) {
	u := AdminUser{
		ID:           "some-id",
		Email:        "admin@example.com",
		PasswordSalt: "salt",
		PasswordHash: "hash",
		Role:         RoleAdmin,
	}
	s := u.Sanitized()
	if s.ID != u.ID || s.Email != u.Email || s.Role != u.Role {
		t.Error("sanitized view lost identity fields")
	}
}
