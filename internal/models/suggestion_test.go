package models

import (
	"encoding/json"
	"testing"
)

func TestPrice_MarshalJSON(t *testing.T) {
	amount := 249.9
	tests := []struct {
		name     string
		price    Price
		expected string
	}{
		{"Amount", Price{Amount: &amount, Display: "R$ 249,90"}, `249.9`},
		{"DisplayOnly", Price{Display: "R$ 249,90"}, `"R$ 249,90"`},
		{"Empty", Price{}, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.price)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, data)
			}
		})
	}
}

func TestPrice_UnmarshalJSON(t *testing.T) {
	var withNumber struct {
		P Price `json:"p"`
	}
	if err := json.Unmarshal([]byte(`{"p": 40}`), &withNumber); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withNumber.P.Amount == nil || *withNumber.P.Amount != 40 {
		t.Fatalf("expected amount 40, got %+v", withNumber.P)
	}

	var withString struct {
		P Price `json:"p"`
	}
	if err := json.Unmarshal([]byte(`{"p": "sob consulta"}`), &withString); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withString.P.Amount != nil || withString.P.Display != "sob consulta" {
		t.Fatalf("expected display string, got %+v", withString.P)
	}

	var bad Price
	if err := bad.UnmarshalJSON([]byte(`{}`)); err == nil {
		t.Fatal("expected error for object price")
	}
}

func TestSuggestionResult_NullableFieldsSerializeAsNull(t *testing.T) {
	data, err := json.Marshal(SuggestionResult{ID: "x", Source: SourceExternal, Tags: []string{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"imagem", "prioridade", "categoria", "cupom", "validadeCupom", "statusCupom"} {
		v, ok := raw[key]
		if !ok {
			t.Errorf("expected key %q to be present", key)
		} else if v != nil {
			t.Errorf("expected %q to be null, got %v", key, v)
		}
	}
	if _, ok := raw["loja"]; ok {
		t.Error("expected loja to be omitted when unknown")
	}
}

func TestAgeRangeFor(t *testing.T) {
	tests := []struct {
		age      int
		expected string
		ok       bool
	}{
		{-1, "", false},
		{8, AgeRangeChild, true},
		{15, AgeRangeTeen, true},
		{22, AgeRangeYoung, true},
		{45, AgeRangeAdult, true},
		{70, AgeRangeSenior, true},
	}
	for _, tt := range tests {
		got, ok := AgeRangeFor(tt.age)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("AgeRangeFor(%d) = %q, %v; want %q, %v", tt.age, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestRecipientSignals_IsEmpty(t *testing.T) {
	if !(RecipientSignals{}).IsEmpty() {
		t.Error("zero signals should be empty")
	}
	blank := ""
	if !(RecipientSignals{Gender: &blank}).IsEmpty() {
		t.Error("blank attributes should not count")
	}
	friend := "amigo"
	if (RecipientSignals{Relationship: &friend}).IsEmpty() {
		t.Error("relationship alone makes signals non-empty")
	}
	if (RecipientSignals{Interests: []string{"música"}}).IsEmpty() {
		t.Error("interests make signals non-empty")
	}
}
