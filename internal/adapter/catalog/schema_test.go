package catalog

import (
	"strings"
	"testing"
)

func newTestSchema(t *testing.T) *summarySchema {
	t.Helper()
	s, err := newSummarySchema()
	if err != nil {
		t.Fatalf("newSummarySchema: %v", err)
	}
	return s
}

func TestSchemaAcceptsFullRecord(t *testing.T) {
	s := newTestSchema(t)
	rec, err := s.parse([]byte(`{
		"role": "Reviews pull requests for style and correctness",
		"responsibilities": ["diff review", "style enforcement"],
		"constraints": ["never force-push"],
		"output_shape": {"verdict": "string", "comments": "array"},
		"tokens": 42
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Role == "" || rec.Tokens != 42 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Responsibilities) != 2 || len(rec.Constraints) != 1 {
		t.Errorf("lists not parsed: %+v", rec)
	}
}

func TestSchemaAcceptsRoleOnly(t *testing.T) {
	s := newTestSchema(t)
	rec, err := s.parse([]byte(`{"role": "minimal"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Tokens != 0 {
		t.Errorf("Tokens = %d, want 0 when absent", rec.Tokens)
	}
}

func TestSchemaRejects(t *testing.T) {
	s := newTestSchema(t)
	cases := []struct {
		name string
		data string
	}{
		{"missing role", `{"responsibilities": ["x"]}`},
		{"empty role", `{"role": ""}`},
		{"unknown field", `{"role": "x", "persona": "y"}`},
		{"zero tokens", `{"role": "x", "tokens": 0}`},
		{"non-integer tokens", `{"role": "x", "tokens": "many"}`},
		{"non-string responsibility", `{"role": "x", "responsibilities": [1]}`},
		{"not an object", `["role"]`},
		{"malformed json", `{"role": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.parse([]byte(tc.data)); err == nil {
				t.Errorf("parse(%s) should fail", tc.data)
			}
		})
	}
}

func TestSchemaRejectsOversizeList(t *testing.T) {
	s := newTestSchema(t)
	items := strings.Repeat(`"x",`, 16) + `"x"` // 17 items, max is 16
	if _, err := s.parse([]byte(`{"role": "x", "responsibilities": [` + items + `]}`)); err == nil {
		t.Error("list over maxItems should fail validation")
	}
}

func TestSummaryPayloadDropsTokens(t *testing.T) {
	rec := &summaryRecord{Role: "x", Tokens: 99}
	if rec.payload().Tokens != 0 {
		t.Error("payload should zero the tokens field")
	}
}
