// Package prompt builds the system instructions injected ahead of the caller's
// chat history: the base prompt, the language-pin and the optional price-pin.
package prompt

// Locale selects the wording used for pins and table values.
type Locale string

// Supported locales.
const (
	LocaleEnglish Locale = "en"
	LocaleSpanish Locale = "es"
)

// Default lookup codes.
const (
	DefaultLanguageCode = "es"
	DefaultBudgetCode   = "all"
)

// localeSet holds the read-only tables and templates for one locale.
type localeSet struct {
	languages   map[string]string
	budgets     map[string]string
	languagePin string // %[1]s is the language name
	pricePin    string // %[1]s is the budget phrase
}

var locales = map[Locale]localeSet{
	LocaleEnglish: {
		languages: map[string]string{
			"de": "German",
			"en": "English",
			"es": "Spanish",
			"fr": "French",
			"pt": "Portuguese",
			"pl": "Polish",
			"zh": "Chinese",
		},
		budgets: map[string]string{
			"under20":        "less than €20",
			"between21and60": "€21–60",
			"over60":         "more than €60",
			"all":            "no limit",
		},
		languagePin: "The user's current language is %[1]s. Respond exclusively and strictly in %[1]s, without mixing languages or translating the user's text.",
		pricePin:    "The user's budget is %[1]s. Limit every recommendation strictly to that price range.",
	},
	LocaleSpanish: {
		languages: map[string]string{
			"de": "alemán",
			"en": "inglés",
			"es": "español",
			"fr": "francés",
			"pt": "portugués",
			"pl": "polaco",
			"zh": "chino",
		},
		budgets: map[string]string{
			"under20":        "menos de 20 €",
			"between21and60": "entre 21 y 60 €",
			"over60":         "más de 60 €",
			"all":            "sin límite",
		},
		languagePin: "El idioma actual del usuario es %[1]s. Responde única y estrictamente en %[1]s, sin mezclar idiomas ni traducir el texto del usuario.",
		pricePin:    "El presupuesto del usuario es %[1]s. Limita todas las recomendaciones estrictamente a ese rango de precio.",
	},
}

// ParseLocale returns the matching locale, falling back to English.
func ParseLocale(s string) Locale {
	if _, ok := locales[Locale(s)]; ok {
		return Locale(s)
	}
	return LocaleEnglish
}

func (l Locale) set() localeSet {
	if s, ok := locales[l]; ok {
		return s
	}
	return locales[LocaleEnglish]
}

// LanguageName resolves a language code to its display name.
// Unknown or empty codes resolve to Spanish.
func (l Locale) LanguageName(code string) string {
	s := l.set()
	if name, ok := s.languages[code]; ok {
		return name
	}
	return s.languages[DefaultLanguageCode]
}

// BudgetPhrase resolves a budget code to its phrase.
// Unknown codes resolve to "no limit".
func (l Locale) BudgetPhrase(code string) string {
	s := l.set()
	if phrase, ok := s.budgets[code]; ok {
		return phrase
	}
	return s.budgets[DefaultBudgetCode]
}

// LanguageCodes lists the supported language codes.
func LanguageCodes() []string {
	return []string{"de", "en", "es", "fr", "pt", "pl", "zh"}
}

// BudgetCodes lists the supported budget codes.
func BudgetCodes() []string {
	return []string{"under20", "between21and60", "over60", "all"}
}

// ResolveLanguage returns code if it is a supported language code, otherwise
// the default. The result is safe to use as a metric or log label.
func ResolveLanguage(code string) string {
	if _, ok := locales[LocaleEnglish].languages[code]; ok {
		return code
	}
	return DefaultLanguageCode
}

// ResolveBudget returns code if it is a supported budget code, otherwise the
// default.
func ResolveBudget(code string) string {
	if _, ok := locales[LocaleEnglish].budgets[code]; ok {
		return code
	}
	return DefaultBudgetCode
}
