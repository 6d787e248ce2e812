package config

import "sort"

// RoastCatalog holds the static lookup tables used to compose roast
// directives. It is built once and shared read-only.
type RoastCatalog struct {
	IntensityInstructions map[string]string `yaml:"intensity_instructions" validate:"min=1,dive,keys,required,endkeys,required"`
	AppContexts           map[string]string `yaml:"app_contexts" validate:"min=1,dive,keys,required,endkeys,required"`
	CategoryFocus         map[string]string `yaml:"category_focus" validate:"min=1,dive,keys,required,endkeys,required"`
	HinglishPhrases       []string          `yaml:"hinglish_phrases" validate:"dive,required"`
	CulturalReferences    []string          `yaml:"cultural_references" validate:"dive,required"`
}

// DefaultCatalog returns the built-in roast tables.
func DefaultCatalog() RoastCatalog {
	return RoastCatalog{
		IntensityInstructions: map[string]string{
			"light":  "Keep it playful and gentle, like a friendly tease between friends. Use humor that makes them smile rather than cringe.",
			"medium": "Make it witty and clever with a good balance of humor and reality check. Include some sass but keep it entertaining.",
			"brutal": "Go all out with savage humor! Be ruthlessly funny and don't hold back. Make it hilariously harsh but still entertaining.",
		},
		AppContexts: map[string]string{
			"Instagram": "their endless scrolling through perfectly curated lives and food photos",
			"TikTok":    "their addiction to short-form videos and dance trends",
			"YouTube":   "their rabbit hole of random videos and procrastination",
			"Twitter":   "their obsession with hot takes and social media drama",
			"Reddit":    "their deep dives into random communities and endless comment threads",
			"Facebook":  "their endless scrolling through family drama and old friends' updates",
			"Snapchat":  "their obsession with streaks and disappearing messages",
			"WhatsApp":  "their endless group chat notifications and forwarded messages",
			"LinkedIn":  "their professional networking that turned into mindless scrolling",
		},
		CategoryFocus: map[string]string{
			"health":        "how this screen time is affecting their physical and mental well-being",
			"career":        "how this is impacting their productivity and professional goals",
			"social_life":   "how this is affecting their real-world relationships and social skills",
			"finance":       "the opportunity cost and how they could be making money instead",
			"laziness":      "their procrastination habits and avoidance of responsibilities",
			"productivity":  "how this is killing their focus and getting things done",
			"relationships": "how this is affecting their personal relationships",
			"fitness":       "how this sedentary behavior is impacting their physical fitness",
			"sleep":         "how late-night scrolling is ruining their sleep schedule",
			"None":          "their general screen time habits and digital lifestyle",
		},
		HinglishPhrases: []string{
			"Yaar", "Bhai", "Arre", "Kya baat hai", "Sach mein", "Bilkul",
			"Bas kar", "Chill maar", "Tension mat le", "Paisa vasool",
			"Time pass", "Bindaas", "Jugaad", "Funda", "Scene", "Vibe",
		},
		CulturalReferences: []string{
			"Sharma ji ka beta", "Ghar wale", "Padosi", "Relatives",
			"College friends", "Office colleagues", "Gym jaana",
			"Cooking skills", "Traffic", "Metro", "Rickshaw",
		},
	}
}

// Apps returns the app names with a context entry, sorted.
func (c RoastCatalog) Apps() []string { return sortedKeys(c.AppContexts) }

// Intensities returns the intensities with an instruction, sorted.
func (c RoastCatalog) Intensities() []string { return sortedKeys(c.IntensityInstructions) }

// Categories returns the categories with a focus entry, sorted.
func (c RoastCatalog) Categories() []string { return sortedKeys(c.CategoryFocus) }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
