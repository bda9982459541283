package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 1, true},
		{"10000", 10000, true},
		{" 2500 ", 2500, true},
		{"10 000", 10000, true},
		{"10\u00a0000", 10000, true},
		{"10\u00a0000 FCFA", 10000, true},
		{"10\u202f000", 10000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"12.5", 0, false},
		{"FCFA", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Francs != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Francs, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	s := FCFA(50000).String()
	if !strings.HasSuffix(s, "FCFA") {
		t.Fatalf("expected FCFA suffix, got %q", s)
	}
	if !strings.HasPrefix(s, "50") || !strings.Contains(s, "000") {
		t.Fatalf("unexpected rendering %q", s)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(MemberSnapshot{Name: "Awa", Amount: FCFA(10000), Paid: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"name":"Awa","amount":10000,"paid":true}` {
		t.Fatalf("unexpected json %s", b)
	}
	var back MemberSnapshot
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount.Francs != 10000 {
		t.Fatalf("unexpected amount %d", back.Amount.Francs)
	}
}
