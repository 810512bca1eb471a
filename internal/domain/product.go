package domain

// Language selects which localized field a projection prefers for display.
type Language string

const (
	LanguageES Language = "es"
	LanguageEN Language = "en"
)

// Languages returns every supported display language.
func Languages() []Language {
	return []Language{LanguageES, LanguageEN}
}

// ParseLanguage maps a raw string to a supported language, defaulting to
// Spanish (the storefront's primary locale) for anything unrecognized.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageEN {
		return LanguageEN
	}
	return LanguageES
}

// Other returns the opposite language, used by the display fallback chain.
func (l Language) Other() Language {
	if l == LanguageEN {
		return LanguageES
	}
	return LanguageEN
}

// Product is a raw catalog record as delivered by the backing store. Every
// text field is optional: records may carry per-language variants, the
// untagged legacy field from before the catalog was localized, any mix of
// the two, or none at all. The store owns these records; this service only
// ever reads full replacement snapshots of them.
type Product struct {
	ID string `json:"id"`

	NameES string `json:"name_es,omitempty"`
	NameEN string `json:"name_en,omitempty"`
	Name   string `json:"name,omitempty"`

	ShortDescES string `json:"shortDesc_es,omitempty"`
	ShortDescEN string `json:"shortDesc_en,omitempty"`
	ShortDesc   string `json:"shortDesc,omitempty"`

	LongDescES string `json:"longDesc_es,omitempty"`
	LongDescEN string `json:"longDesc_en,omitempty"`
	LongDesc   string `json:"longDesc,omitempty"`

	CategoryES string `json:"category_es,omitempty"`
	CategoryEN string `json:"category_en,omitempty"`
	Category   string `json:"category,omitempty"`

	// Price may arrive as a JSON number, a numeric string, or garbage.
	// Non-coercible prices are ignored by the price filter, never rejected.
	Price FlexNumber `json:"price,omitempty"`

	Featured bool `json:"featured,omitempty"`

	// CreatedAt may be an RFC 3339 string, an epoch number, a wrapped
	// {seconds,nanos} object, or absent; unparsable values fall back to
	// the Unix epoch.
	CreatedAt FlexTime `json:"createdAt,omitempty"`
}
