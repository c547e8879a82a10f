package inputval

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"instructor", true},
		{"student", true},
		{"", false},
		{"Admin", false}, // callers normalize first
		{"tutor", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			res := Validate(struct {
				Role string `validate:"role" label:"Role"`
			}{tt.role})
			if res.HasErrors() == tt.want {
				t.Errorf("Validate(role=%q) HasErrors = %v, want %v", tt.role, res.HasErrors(), !tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		// Valid URLs
		{"http://example.com", true},
		{"https://example.com", true},
		{"http://example.com/path", true},
		{"https://example.com/path?query=1", true},
		{"http://localhost:8080", true},
		{"https://sub.domain.example.com", true},

		// Valid with whitespace (trimmed)
		{"  https://example.com  ", true},

		// Invalid URLs
		{"", false},
		{"   ", false},
		{"ftp://example.com", false},
		{"mailto:user@example.com", false},
		{"example.com", false},
		{"//example.com", false},
		{"not a url", false},
		{"file:///path/to/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsValidHTTPURL(tt.url)
			if got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		// Valid ObjectIDs (24 hex characters)
		{"507f1f77bcf86cd799439011", true},
		{"000000000000000000000000", true},
		{"ffffffffffffffffffffffff", true},
		{"FFFFFFFFFFFFFFFFFFFFFFFF", true}, // uppercase hex is valid

		// Valid with whitespace (trimmed)
		{"  507f1f77bcf86cd799439011  ", true},

		// Invalid ObjectIDs
		{"", false},
		{"   ", false},
		{"507f1f77bcf86cd79943901", false},   // too short (23 chars)
		{"507f1f77bcf86cd7994390111", false}, // too long (25 chars)
		{"507f1f77bcf86cd79943901g", false},  // invalid hex char
		{"not-a-valid-id", false},
		{"12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := IsValidObjectID(tt.id)
			if got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "John", Email: "john@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "John", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Name: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Full name is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_First(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.First() != "" {
			t.Errorf("First() = %q, want empty", r.First())
		}
	})

	t.Run("with errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "First error"},
				{Message: "Second error"},
			},
		}
		if r.First() != "First error" {
			t.Errorf("First() = %q, want %q", r.First(), "First error")
		}
	})
}

func TestValidate_CustomRules(t *testing.T) {
	type URLInput struct {
		URL string `validate:"required,httpurl" label:"Document URL"`
	}

	type IDInput struct {
		ID string `validate:"required,objectid" label:"Course ID"`
	}

	type PaymentInput struct {
		Status string `validate:"paymentstatus" label:"Status"`
	}

	t.Run("valid url", func(t *testing.T) {
		if res := Validate(URLInput{URL: "https://example.com/doc.pdf"}); res.HasErrors() {
			t.Errorf("unexpected errors: %v", res.Errors)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		res := Validate(URLInput{URL: "ftp://example.com"})
		if res.First() != "Document URL must be an http(s) URL." {
			t.Errorf("First() = %q", res.First())
		}
	})

	t.Run("invalid object id", func(t *testing.T) {
		res := Validate(IDInput{ID: "nope"})
		if res.First() != "Course ID must be a valid ID." {
			t.Errorf("First() = %q", res.First())
		}
	})

	t.Run("payment status", func(t *testing.T) {
		if res := Validate(PaymentInput{Status: "completed"}); res.HasErrors() {
			t.Errorf("unexpected errors: %v", res.Errors)
		}
		if res := Validate(PaymentInput{Status: "lost"}); !res.HasErrors() {
			t.Error("expected error for unknown status")
		}
	})
}

func TestValidate_JSONTagFallback(t *testing.T) {
	type Input struct {
		Answers []string `json:"answers" validate:"min=1"`
		Rating  int      `json:"rating" validate:"gte=1,lte=5"`
	}

	res := Validate(Input{Answers: nil, Rating: 9})
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Message != "answers must contain at least 1 items." {
		t.Errorf("Errors[0] = %q", res.Errors[0].Message)
	}
	if res.Errors[1].Message != "rating must be at most 5." {
		t.Errorf("Errors[1] = %q", res.Errors[1].Message)
	}
}
