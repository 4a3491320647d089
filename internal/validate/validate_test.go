package validate

import (
	"context"
	"regexp"
	"testing"
	"time"
)

func TestRun_AllPass_ReturnsEmpty(t *testing.T) {
	vs := Run(context.Background(),
		Required("email", "a@b.com"),
		Email("email", "a@b.com"),
		LenBetween("name", "Alice", 2, 50),
		Range("age", 30, 18, 120),
	)
	if len(vs) != 0 {
		t.Fatalf("expected no violations, got %+v", vs)
	}
}

func TestRun_NameLengthScenario(t *testing.T) {
	vs := Run(context.Background(), LenBetween("name", "A", 2, 50))
	if len(vs) != 1 {
		t.Fatalf("expected exactly one violation, got %+v", vs)
	}
	if vs[0].Field != "name" {
		t.Fatalf("field = %q", vs[0].Field)
	}
	if vs[0].Message != "Name must be between 2 and 50 characters long" {
		t.Fatalf("message = %q", vs[0].Message)
	}
}

func TestRun_KFailures_DeclarationOrder(t *testing.T) {
	// Rules are deliberately made to finish in reverse declaration order;
	// the result must still follow declaration order.
	slow := Custom("first", func(ctx context.Context) string {
		time.Sleep(30 * time.Millisecond)
		return "first failed"
	})
	mid := Custom("second", func(ctx context.Context) string {
		time.Sleep(10 * time.Millisecond)
		return "second failed"
	})
	fast := Custom("third", func(ctx context.Context) string {
		return "third failed"
	})

	vs := Run(context.Background(), slow, Required("ok", "present"), mid, fast)
	if len(vs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %+v", len(vs), vs)
	}
	want := []string{"first", "second", "third"}
	for i, f := range want {
		if vs[i].Field != f {
			t.Fatalf("violation %d: field=%q want %q (order not preserved)", i, vs[i].Field, f)
		}
	}
}

func TestOptional_VacuousWhenAbsent(t *testing.T) {
	if vs := Run(context.Background(), Optional(Email("email", ""), "")); len(vs) != 0 {
		t.Fatalf("optional absent field must pass, got %+v", vs)
	}
	if vs := Run(context.Background(), Optional(Email("email", "not-an-email"), "not-an-email")); len(vs) != 1 {
		t.Fatalf("optional present field must still be checked, got %+v", vs)
	}
}

func TestRuleFamilies(t *testing.T) {
	cases := []struct {
		name    string
		rule    Rule
		wantMsg string
	}{
		{"required empty", Required("name", "  "), "Name is required"},
		{"bad email", Email("email", "nope"), "Email must be a valid email address"},
		{"min len", MinLen("password", "short", 8), "Password must be at least 8 characters long"},
		{"max len", MaxLen("bio", "abcdef", 3), "Bio must be at most 3 characters long"},
		{"range", Range("port", 70000, 1, 65535), "Port must be between 1 and 65535"},
		{"pattern default", Matches("slug", "Has Spaces", regexp.MustCompile(`^[a-z-]+$`), ""), "Slug has an invalid format"},
		{"pattern custom", Matches("slug", "x y", regexp.MustCompile(`^[a-z-]+$`), "Slug must be kebab-case"), "Slug must be kebab-case"},
	}
	for _, tc := range cases {
		vs := Run(context.Background(), tc.rule)
		if len(vs) != 1 {
			t.Fatalf("%s: expected one violation, got %+v", tc.name, vs)
		}
		if vs[0].Message != tc.wantMsg {
			t.Fatalf("%s: message=%q want %q", tc.name, vs[0].Message, tc.wantMsg)
		}
	}
}

func TestRun_NoRules(t *testing.T) {
	if vs := Run(context.Background()); vs != nil {
		t.Fatalf("expected nil for empty rule set, got %+v", vs)
	}
}

func TestRun_Deterministic(t *testing.T) {
	rules := func() []Rule {
		return []Rule{
			LenBetween("name", "A", 2, 50),
			Email("email", "nope"),
			Required("password", ""),
		}
	}
	first := Run(context.Background(), rules()...)
	for i := 0; i < 20; i++ {
		again := Run(context.Background(), rules()...)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: violation %d differs: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
}
