package domain

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Example.COM", "example.com", false},
		{" https://Example.COM/ ", "example.com", false},
		{"example.com:443", "example.com", false},
		{"example.com.", "example.com", false},
		{"foo.io", "foo.io", false},
		{"", "", true},
		{"localhost", "", true},
		{"not a domain", "", true},
		{"foo..com", "", true},
		{"-bad.com", "", true},
		{"bad-.com", "", true},
		{"example.c", "", true},
		{"example.c0m", "", true},
	}

	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Normalize(%q): expected error, got none (got=%q)", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Normalize(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	got, err := Sanitize([]string{"Example.COM", "not a domain", "foo.io"})
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	want := []string{"example.com", "foo.io"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sanitize: got %v, want %v", got, want)
	}
}

func TestSanitize_EmptyBatch(t *testing.T) {
	t.Parallel()

	for _, raw := range [][]string{nil, {}, {"", "  ", "not a domain"}} {
		if _, err := Sanitize(raw); err != ErrEmptyBatch {
			t.Fatalf("Sanitize(%v): err=%v, want ErrEmptyBatch", raw, err)
		}
	}
}

func TestSanitize_Cap(t *testing.T) {
	t.Parallel()

	raw := make([]string, 0, MaxBatchSize+5)
	for i := 0; i < MaxBatchSize+5; i++ {
		raw = append(raw, "example"+string(rune('a'+i))+".com")
	}
	got, err := Sanitize(raw)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if len(got) != MaxBatchSize {
		t.Fatalf("len=%d, want %d", len(got), MaxBatchSize)
	}
	// The cap keeps the first valid entries by input order.
	if got[0] != "examplea.com" {
		t.Fatalf("got[0]=%q, want examplea.com", got[0])
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	t.Parallel()

	raw := []string{"Example.COM", "https://foo.io/path", "bar.dev."}
	once, err := Sanitize(raw)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	twice, err := Sanitize(once)
	if err != nil {
		t.Fatalf("Sanitize(Sanitize): %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: %v vs %v", once, twice)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	label, suffix := Split("example.com")
	if label != "example" || suffix != "com" {
		t.Fatalf("Split(example.com)=%q,%q", label, suffix)
	}
	label, suffix = Split("www.example.co.uk")
	if label != "www.example.co" || suffix != "uk" {
		t.Fatalf("Split(www.example.co.uk)=%q,%q", label, suffix)
	}
	if label, suffix = Split("nodots"); label != "" || suffix != "" {
		t.Fatalf("Split(nodots)=%q,%q", label, suffix)
	}
}
