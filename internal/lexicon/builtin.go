package lexicon

import "sync"

// DefaultSpec returns the built-in English lexicon for hostel and campus
// grievances. The returned value is a fresh copy and may be modified.
func DefaultSpec() Spec {
	return Spec{
		Categories: []CategorySpec{
			{Label: "Security", Phrases: map[string]int{
				"theft": 3, "stolen": 3, "robbery": 3, "intruder": 3, "harassment": 3,
				"unsafe": 2, "security": 2, "guard": 2, "cctv": 2, "door lock": 2, "trespass": 3,
			}},
			{Label: "Maintenance", Phrases: map[string]int{
				"maintenance": 2, "repair": 2, "broken": 2, "leak": 2, "leaking": 2, "heater": 2,
				"plumbing": 2, "pipe": 1, "tap": 1, "fan": 2, "light": 1, "lights": 1,
				"electricity": 2, "power cut": 2, "air conditioner": 2, "geyser": 2,
				"no water": 2, "ceiling": 1, "window": 1,
			}},
			{Label: "Connectivity", Phrases: map[string]int{
				"wifi": 3, "internet": 3, "network": 2, "router": 2, "signal": 1,
				"connection": 2, "bandwidth": 2, "lan": 2, "online": 1,
			}},
			{Label: "Food", Phrases: map[string]int{
				"food": 3, "mess": 2, "meal": 2, "meals": 2, "breakfast": 2, "lunch": 2,
				"dinner": 2, "canteen": 2, "menu": 1, "taste": 1, "stale": 2, "rice": 1, "cook": 1,
			}},
			{Label: "Cleanliness", Phrases: map[string]int{
				"dirty": 2, "cleaning": 2, "garbage": 2, "trash": 2, "smell": 1, "smelly": 2,
				"hygiene": 2, "washroom": 2, "bathroom": 1, "toilet": 2, "dust": 1,
				"cockroach": 2, "cockroaches": 2, "pests": 2, "rats": 2, "sweeping": 1,
			}},
			{Label: "Noise", Phrases: map[string]int{
				"noise": 3, "noisy": 3, "loud": 2, "music": 1, "party": 1, "shouting": 2, "disturbance": 2,
			}},
			{Label: "Staff", Phrases: map[string]int{
				"staff": 2, "warden": 2, "rude": 2, "behaviour": 2, "behavior": 2,
				"management": 1, "attitude": 1, "caretaker": 2,
			}},
		},
		Sentiment: SentimentSpec{
			Positive: map[string]int{
				"thanks": 2, "thank": 2, "great": 2, "good": 1, "excellent": 2, "appreciate": 2,
				"appreciated": 2, "fixed": 1, "resolved": 2, "quickly": 1, "helpful": 2,
				"happy": 2, "satisfied": 2, "nice": 1, "improved": 1, "wonderful": 2, "prompt": 1,
			},
			Negative: map[string]int{
				"terrible": 3, "worst": 3, "horrible": 3, "disgusting": 3, "bad": 2, "poor": 2,
				"broken": 2, "not working": 2, "down": 1, "dirty": 2, "rude": 2, "unsafe": 2,
				"stolen": 2, "leaking": 1, "noisy": 1, "frustrated": 2, "angry": 2, "annoying": 2,
				"slow": 1, "stale": 2, "problem": 1, "issue": 1, "complaint": 1, "never": 1,
				"unacceptable": 3,
			},
		},
		Urgency: UrgencySpec{
			High: map[string]int{
				"urgent": 3, "urgently": 3, "emergency": 3, "immediately": 3, "asap": 3,
				"danger": 3, "dangerous": 3, "fire": 3, "injured": 3, "injury": 3,
				"critical": 3, "sparking": 3, "flooding": 3, "unsafe": 2, "theft": 2,
				"stolen": 2, "shock": 2, "right now": 2,
			},
			Medium: map[string]int{
				"soon": 2, "broken": 2, "not working": 2, "repeatedly": 2, "since yesterday": 2,
				"still": 1, "again": 1, "days": 1, "week": 1, "weeks": 1, "frequently": 1,
			},
			Low: map[string]int{
				"minor": 2, "whenever": 2, "when possible": 2, "suggestion": 2, "suggest": 2,
				"would be nice": 2, "request": 1, "feedback": 1,
			},
		},
	}
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the shared built-in Set. The built-in tables are validated
// by tests, so a build failure here is a programming error.
func Default() *Set {
	defaultOnce.Do(func() {
		set, err := build("builtin", DefaultSpec())
		if err != nil {
			panic(err)
		}
		defaultSet = set
	})
	return defaultSet
}
