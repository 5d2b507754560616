package filter

import (
	"testing"

	"github.com/kailas-cloud/simplerag/internal/domain/locale"
)

func TestForLocale(t *testing.T) {
	tests := []struct {
		name  string
		loc   locale.Locale
		empty bool
		value string
	}{
		{"absent", "", true, ""},
		{"en-US", locale.EnUS, false, "en-US"},
		{"pt-BR", locale.PtBR, false, "pt-BR"},
		{"es-MX", locale.EsMX, false, "es-MX"},
		{"fr-FR", locale.FrFR, false, "fr-FR"},
		{"it-IT", locale.ItIT, false, "it-IT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ForLocale(tt.loc)
			if e.IsEmpty() != tt.empty {
				t.Fatalf("IsEmpty() = %v, want %v", e.IsEmpty(), tt.empty)
			}
			if tt.empty {
				return
			}
			if e.Op() != OpEq {
				t.Errorf("Op() = %v, want eq", e.Op())
			}
			if e.Key() != "locale" {
				t.Errorf("Key() = %q, want locale", e.Key())
			}
			if e.Value() != tt.value {
				t.Errorf("Value() = %q, want %q", e.Value(), tt.value)
			}
		})
	}
}

func TestMatches_Eq(t *testing.T) {
	e := ForLocale(locale.PtBR)
	if !e.Matches(map[string]string{"locale": "pt-BR"}) {
		t.Error("expected match on pt-BR")
	}
	if e.Matches(map[string]string{"locale": "en-US"}) {
		t.Error("unexpected match on en-US")
	}
	if e.Matches(map[string]string{"locale": "pt-br"}) {
		t.Error("match must be case-sensitive")
	}
	if e.Matches(nil) {
		t.Error("unexpected match on nil metadata")
	}
}

func TestMatches_Empty(t *testing.T) {
	var e Expression
	if !e.Matches(nil) || !e.Matches(map[string]string{"locale": "it-IT"}) {
		t.Error("empty expression must match everything")
	}
}

func TestMatches_Composite(t *testing.T) {
	pt := Eq("locale", "pt-BR")
	es := Eq("locale", "es-MX")
	topic := Eq("topic", "sail")

	tests := []struct {
		name string
		expr Expression
		meta map[string]string
		want bool
	}{
		{"or hit", Or(pt, es), map[string]string{"locale": "es-MX"}, true},
		{"or miss", Or(pt, es), map[string]string{"locale": "fr-FR"}, false},
		{"and hit", And(pt, topic), map[string]string{"locale": "pt-BR", "topic": "sail"}, true},
		{"and miss", And(pt, topic), map[string]string{"locale": "pt-BR"}, false},
		{"not hit", Not(pt), map[string]string{"locale": "en-US"}, true},
		{"not miss", Not(pt), map[string]string{"locale": "pt-BR"}, false},
		{"nested", And(Or(pt, es), Not(topic)), map[string]string{"locale": "es-MX", "topic": "candle"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.Matches(tt.meta); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroup_Simplifies(t *testing.T) {
	pt := Eq("locale", "pt-BR")

	if !And().IsEmpty() || !Or(Expression{}, Expression{}).IsEmpty() {
		t.Error("groups of empty operands must be empty")
	}
	if got := And(Expression{}, pt); got.Op() != OpEq {
		t.Errorf("single operand And should collapse, got %v", got.Op())
	}
	if !Not(Expression{}).IsEmpty() {
		t.Error("Not(empty) must be empty")
	}
	if got := Or(pt, Eq("locale", "it-IT")); len(got.Children()) != 2 {
		t.Errorf("Children() len = %d, want 2", len(got.Children()))
	}
}

func TestOpString(t *testing.T) {
	for op, want := range map[Op]string{OpNone: "none", OpEq: "eq", OpAnd: "and", OpOr: "or", OpNot: "not"} {
		if op.String() != want {
			t.Errorf("%d.String() = %q, want %q", op, op.String(), want)
		}
	}
}
