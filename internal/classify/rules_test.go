package classify

import "testing"

// TestRuleCategory tests keyword category matching
func TestRuleCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{
			name: "Garbage keywords",
			text: "There is a huge pile of trash next to the school",
			want: CategoryGarbage,
		},
		{
			name: "Roads keywords",
			text: "A massive pothole opened up on the highway exit",
			want: CategoryRoads,
		},
		{
			name: "Water keywords",
			text: "Sewage is overflowing into the park",
			want: CategoryWater,
		},
		{
			name: "Electricity keywords",
			text: "The lamp outside my house keeps flickering",
			want: CategoryElectricity,
		},
		{
			name: "Safety keywords",
			text: "A theft was reported near the bus stop",
			want: CategorySafety,
		},
		{
			name: "No keywords",
			text: "Something odd is happening here",
			want: CategoryGeneral,
		},
		{
			name: "Case insensitive",
			text: "GARBAGE everywhere",
			want: CategoryGarbage,
		},
		{
			name: "Enumeration order wins on overlap",
			// "smell" is a garbage keyword and a level-3 urgency keyword;
			// garbage comes before water in the enumeration.
			text: "A bad smell from a broken pipe",
			want: CategoryGarbage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleCategory(tt.text)
			if got != tt.want {
				t.Errorf("RuleCategory(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// TestRuleUrgency tests keyword urgency scoring
func TestRuleUrgency(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "Critical keywords",
			text: "There is a fire in the warehouse",
			want: 5,
		},
		{
			name: "High keywords",
			text: "Sparks are coming from the junction box",
			want: 4,
		},
		{
			name: "Medium keywords",
			text: "The drain cover is broken",
			want: 3,
		},
		{
			name: "Low keywords",
			text: "There is a pothole on my street corner",
			want: 2,
		},
		{
			name: "No keywords",
			text: "Please look into this when convenient",
			want: 1,
		},
		{
			name: "Higher level wins on tie",
			// "fire" (5) and "pothole" (2) both present.
			text: "A fire broke out next to the pothole",
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleUrgency(tt.text)
			if got != tt.want {
				t.Errorf("RuleUrgency(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

// TestRulesAreDeterministic verifies repeated calls yield identical results
func TestRulesAreDeterministic(t *testing.T) {
	text := "There is a gas leak and fire near the market"

	category := RuleCategory(text)
	urgency := RuleUrgency(text)

	for i := 0; i < 100; i++ {
		if got := RuleCategory(text); got != category {
			t.Fatalf("RuleCategory not deterministic: %q then %q", category, got)
		}
		if got := RuleUrgency(text); got != urgency {
			t.Fatalf("RuleUrgency not deterministic: %d then %d", urgency, got)
		}
	}

	// "leak" is a water keyword, "fire" a level-5 trigger.
	if category != CategoryWater {
		t.Errorf("expected %q, got %q", CategoryWater, category)
	}
	if urgency != 5 {
		t.Errorf("expected urgency 5, got %d", urgency)
	}
}
