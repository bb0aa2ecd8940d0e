package logger

import "testing"

func TestStringFieldsSkipsEmptyEntries(t *testing.T) {
	fields := StringFields(
		StringField{Key: "user_id", Value: "u-1"},
		StringField{Key: "  ", Value: "ignored"},
		StringField{Key: "action", Value: "   "},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "user_id" {
		t.Fatalf("unexpected field key: %s", fields[0].Key)
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	logger := WithFields(nil)
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
