package utils

import (
	"reflect"
	"testing"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "pure JSON",
			input: `{"category": "bon_prix", "savingsPercentage": 9}`,
			want: map[string]interface{}{
				"category":          "bon_prix",
				"savingsPercentage": float64(9),
			},
		},
		{
			name: "markdown code fence",
			input: "```json\n" +
				`{"category": "prix_eleve", "savingsPercentage": -12}` + "\n```",
			want: map[string]interface{}{
				"category":          "prix_eleve",
				"savingsPercentage": float64(-12),
			},
		},
		{
			name: "bare fence",
			input: "```\n" +
				`{"category": "prix_correct"}` + "\n```",
			want: map[string]interface{}{
				"category": "prix_correct",
			},
		},
		{
			name:  "JSON with surrounding prose",
			input: `Here is my analysis: {"category": "excellent_prix", "savingsPercentage": 18} hope that helps.`,
			want: map[string]interface{}{
				"category":          "excellent_prix",
				"savingsPercentage": float64(18),
			},
		},
		{
			name:  "trailing comma",
			input: `{"category": "bon_prix", "savingsPercentage": 9,}`,
			want: map[string]interface{}{
				"category":          "bon_prix",
				"savingsPercentage": float64(9),
			},
		},
		{
			name:  "unquoted keys",
			input: `{category: "bon_prix", savingsPercentage: 9}`,
			want: map[string]interface{}{
				"category":          "bon_prix",
				"savingsPercentage": float64(9),
			},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "the price looks reasonable to me",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAIJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAIJSON_StructTarget(t *testing.T) {
	type verdict struct {
		Category          string `json:"category"`
		SavingsPercentage int    `json:"savingsPercentage"`
		Explanation       string `json:"explanation"`
	}

	input := "The market data suggests:\n```json\n" +
		`{"category": "bon_prix", "savingsPercentage": 9, "explanation": "Sous la moyenne du marché."}` +
		"\n```"

	var got verdict
	if err := ParseAIJSON(input, &got); err != nil {
		t.Fatalf("ParseAIJSON() error = %v", err)
	}
	if got.Category != "bon_prix" || got.SavingsPercentage != 9 {
		t.Errorf("got %+v", got)
	}
	if got.Explanation == "" {
		t.Error("explanation should survive extraction")
	}
}

func TestExtractBalanced_NestedAndStrings(t *testing.T) {
	input := `prefix {"a": {"b": "val with } brace"}, "c": [1, 2]} suffix`
	got := extractJSONObject(input)
	want := `{"a": {"b": "val with } brace"}, "c": [1, 2]}`
	if got != want {
		t.Errorf("extractJSONObject() = %q, want %q", got, want)
	}
}
