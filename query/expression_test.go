package query

import (
	"encoding/json"
	"testing"
)

func TestIntExpressionMatches(t *testing.T) {

	tests := []struct {
		name string
		expr IntExpression
		v    int64
		want bool
	}{
		{"eq hit", IntEQ(5), 5, true},
		{"eq miss", IntEQ(5), 4, false},
		{"ne hit", IntNE(5), 4, true},
		{"ne miss", IntNE(5), 5, false},
		{"lt hit", IntLT(5), 4, true},
		{"lt boundary", IntLT(5), 5, false},
		{"le boundary", IntLE(5), 5, true},
		{"le miss", IntLE(5), 6, false},
		{"gt hit", IntGT(5), 6, true},
		{"gt boundary", IntGT(5), 5, false},
		{"ge boundary", IntGE(5), 5, true},
		{"ge miss", IntGE(5), 4, false},
		{"between low boundary", IntBetween(2, 4), 2, true},
		{"between high boundary", IntBetween(2, 4), 4, true},
		{"between below", IntBetween(2, 4), 1, false},
		{"between above", IntBetween(2, 4), 5, false},
		{"one_of hit", IntOneOf(1, 3, 5), 3, true},
		{"one_of miss", IntOneOf(1, 3, 5), 2, false},
		{"one_of empty", IntOneOf(), 1, false},
	}

	for _, tt := range tests {
		if got := tt.expr.Matches(tt.v); got != tt.want {
			t.Errorf("%s: Matches(%d) = %v, want %v", tt.name, tt.v, got, tt.want)
		}
	}
}

func TestFloatExpressionMatches(t *testing.T) {

	tests := []struct {
		name string
		expr FloatExpression
		v    float64
		want bool
	}{
		{"eq hit", FloatEQ(0.5), 0.5, true},
		{"eq miss", FloatEQ(0.5), 0.4, false},
		{"ne hit", FloatNE(0.5), 0.4, true},
		{"lt hit", FloatLT(0.5), 0.25, true},
		{"lt boundary", FloatLT(0.5), 0.5, false},
		{"le boundary", FloatLE(0.5), 0.5, true},
		{"gt hit", FloatGT(0.5), 0.75, true},
		{"ge boundary", FloatGE(0.5), 0.5, true},
		{"between inside", FloatBetween(0.25, 0.75), 0.5, true},
		{"between outside", FloatBetween(0.25, 0.75), 0.8, false},
		{"one_of hit", FloatOneOf(0.25, 0.5), 0.5, true},
		{"one_of miss", FloatOneOf(0.25, 0.5), 0.3, false},
	}

	for _, tt := range tests {
		if got := tt.expr.Matches(tt.v); got != tt.want {
			t.Errorf("%s: Matches(%v) = %v, want %v", tt.name, tt.v, got, tt.want)
		}
	}
}

func TestStringExpressionMatches(t *testing.T) {

	tests := []struct {
		name string
		expr StringExpression
		v    string
		want bool
	}{
		{"eq hit", StrEQ("person"), "person", true},
		{"eq miss", StrEQ("person"), "car", false},
		{"ne hit", StrNE("person"), "car", true},
		{"contains hit", StrContains("ers"), "person", true},
		{"contains miss", StrContains("xyz"), "person", false},
		{"not_contains hit", StrNotContains("xyz"), "person", true},
		{"not_contains miss", StrNotContains("ers"), "person", false},
		{"starts_with hit", StrStartsWith("per"), "person", true},
		{"starts_with miss", StrStartsWith("son"), "person", false},
		{"ends_with hit", StrEndsWith("son"), "person", true},
		{"ends_with miss", StrEndsWith("per"), "person", false},
		{"one_of hit", StrOneOf("car", "person"), "person", true},
		{"one_of miss", StrOneOf("car", "truck"), "person", false},
	}

	for _, tt := range tests {
		if got := tt.expr.Matches(tt.v); got != tt.want {
			t.Errorf("%s: Matches(%q) = %v, want %v", tt.name, tt.v, got, tt.want)
		}
	}
}

func TestIntExpressionJSON(t *testing.T) {

	tests := []struct {
		expr IntExpression
		want string
	}{
		{IntEQ(5), `{"eq":5}`},
		{IntNE(5), `{"ne":5}`},
		{IntLT(5), `{"lt":5}`},
		{IntLE(5), `{"le":5}`},
		{IntGT(5), `{"gt":5}`},
		{IntGE(5), `{"ge":5}`},
		{IntBetween(1, 5), `{"between":[1,5]}`},
		{IntOneOf(1, 2, 3), `{"one_of":[1,2,3]}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.expr)

		if err != nil {
			t.Fatalf("marshal %s: %v", tt.want, err)
		}

		if string(data) != tt.want {
			t.Errorf("marshal = %s, want %s", data, tt.want)
		}

		var back IntExpression

		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}

		for _, v := range []int64{-1, 0, 1, 2, 3, 4, 5, 6} {
			if back.Matches(v) != tt.expr.Matches(v) {
				t.Errorf("%s: decoded expression disagrees at %d", tt.want, v)
			}
		}
	}
}

func TestFloatExpressionJSON(t *testing.T) {

	tests := []struct {
		expr FloatExpression
		want string
	}{
		{FloatGT(0.5), `{"gt":0.5}`},
		{FloatBetween(0.25, 0.75), `{"between":[0.25,0.75]}`},
		{FloatOneOf(0.25, 0.5), `{"one_of":[0.25,0.5]}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.expr)

		if err != nil {
			t.Fatalf("marshal %s: %v", tt.want, err)
		}

		if string(data) != tt.want {
			t.Errorf("marshal = %s, want %s", data, tt.want)
		}

		var back FloatExpression

		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}

		for _, v := range []float64{0, 0.25, 0.3, 0.5, 0.75, 1} {
			if back.Matches(v) != tt.expr.Matches(v) {
				t.Errorf("%s: decoded expression disagrees at %v", tt.want, v)
			}
		}
	}
}

func TestStringExpressionJSON(t *testing.T) {

	tests := []struct {
		expr StringExpression
		want string
	}{
		{StrEQ("person"), `{"eq":"person"}`},
		{StrContains("ers"), `{"contains":"ers"}`},
		{StrNotContains("xyz"), `{"not_contains":"xyz"}`},
		{StrStartsWith("per"), `{"starts_with":"per"}`},
		{StrEndsWith("son"), `{"ends_with":"son"}`},
		{StrOneOf("car", "person"), `{"one_of":["car","person"]}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.expr)

		if err != nil {
			t.Fatalf("marshal %s: %v", tt.want, err)
		}

		if string(data) != tt.want {
			t.Errorf("marshal = %s, want %s", data, tt.want)
		}

		var back StringExpression

		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}

		for _, v := range []string{"person", "car", "persona", ""} {
			if back.Matches(v) != tt.expr.Matches(v) {
				t.Errorf("%s: decoded expression disagrees at %q", tt.want, v)
			}
		}
	}
}

func TestExpressionJSONErrors(t *testing.T) {

	tests := []struct {
		name string
		data string
	}{
		{"two keys", `{"eq":1,"ne":2}`},
		{"unknown operator", `{"near":1}`},
		{"between arity", `{"between":[1]}`},
		{"between not array", `{"between":5}`},
		{"wrong value type", `{"eq":"five"}`},
	}

	for _, tt := range tests {
		var e IntExpression

		if err := json.Unmarshal([]byte(tt.data), &e); err == nil {
			t.Errorf("%s: expected error decoding %s", tt.name, tt.data)
		}
	}
}
