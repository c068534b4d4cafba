package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-12d3-a456-426614174000", // v1
		"550e8400-e29b-41d4-a716-446655440000", // v4
	}
	invalid := []string{
		"not-a-uuid",
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"urn:uuid:0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2023/01/01"}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestValidatePaging(t *testing.T) {
	cases := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
		wantErrs          int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"explicit", 3, 50, 3, 50, 0},
		{"negative page", -1, 10, -1, 10, 1},
		{"limit too large", 1, 101, 1, 101, 1},
		{"both invalid", -2, -5, -2, -5, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			page, limit := c.page, c.limit
			errs := ValidatePaging(&page, &limit)
			if len(errs) != c.wantErrs {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, c.wantErrs)
			}
			if page != c.wantPage || limit != c.wantLim {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, c.wantPage, c.wantLim)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	if errs := ValidatePeriod(3, 2024); len(errs) != 0 {
		t.Errorf("ValidatePeriod(3, 2024) = %v, want no errors", errs)
	}
	errs := ValidatePeriod(13, 1999)
	if len(errs) != 2 {
		t.Fatalf("ValidatePeriod(13, 1999) returned %d errors, want 2", len(errs))
	}
	m := errs.ToMap()
	if _, ok := m["month"]; !ok {
		t.Error("missing month error")
	}
	if _, ok := m["year"]; !ok {
		t.Error("missing year error")
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	if got, want := errs.Error(), "a: bad; b: worse"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
