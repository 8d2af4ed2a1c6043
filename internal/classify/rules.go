package classify

import "strings"

// categoryKeywords associates each category with the substrings that
// select it. Matching is case-insensitive; the first category in
// enumeration order with any hit wins.
var categoryKeywords = map[Category][]string{
	CategoryGarbage:     {"garbage", "trash", "rubbish", "dustbin", "waste", "clean", "smell", "dump"},
	CategoryRoads:       {"pothole", "road", "street", "asphalt", "crack", "bump", "traffic", "highway"},
	CategoryWater:       {"water", "leak", "pipe", "drainage", "supply", "sewage", "flood"},
	CategoryElectricity: {"electricity", "light", "pole", "wire", "power", "outage", "current", "lamp"},
	CategorySafety:      {"accident", "unsafe", "crime", "theft", "police", "danger"},
}

// urgencyKeywords associates discrete urgency levels with trigger
// substrings. Levels are scanned from 5 down to 2 so that a text hitting
// several levels is scored at the highest one.
var urgencyKeywords = map[int][]string{
	5: {"fire", "explosion", "gas leak", "collapsed", "life threatening", "emergency"},
	4: {"spark", "short circuit", "flood", "blocked", "accident", "danger"},
	3: {"leak", "broken", "damage", "smell", "overflow"},
	2: {"pothole", "garbage", "trash", "light", "pole"},
}

// RuleCategory classifies text with the keyword table alone. It is a pure
// function of its input and is used whenever the text model is absent or
// produces an invalid answer.
func RuleCategory(text string) Category {
	lower := strings.ToLower(text)

	for _, category := range Categories {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}

	return CategoryGeneral
}

// RuleUrgency scores text against the urgency keyword lists, highest
// level first. Texts with no trigger words score the minimum level.
func RuleUrgency(text string) int {
	lower := strings.ToLower(text)

	for level := MaxUrgency; level >= 2; level-- {
		for _, keyword := range urgencyKeywords[level] {
			if strings.Contains(lower, keyword) {
				return level
			}
		}
	}

	return MinUrgency
}
