package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	i18n "github.com/goliatone/go-i18n"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// Translations returns the built-in field label catalog.
func Translations() i18n.Translations {
	return i18n.Translations{
		"en": newCatalog("en", map[string]string{
			"field_tracker":           "Tracker",
			"field_project":           "Project",
			"field_status":            "Status",
			"field_priority":          "Priority",
			"field_category":          "Category",
			"field_assigned_to":       "Assignee",
			"field_author":            "Author",
			"field_fixed_version":     "Target version",
			"field_subject":           "Subject",
			"field_title":             "Title",
			"field_description":       "Description",
			"field_estimated_hours":   "Estimated time",
			"field_start_date":        "Start date",
			"field_due_date":          "Due date",
			"field_done_ratio":        "% Done",
			"field_is_private":        "Private",
			"field_parent_issue":      "Parent task",
			"field_watcher":           "Watchers",
			"field_db_relation":       "DB Relation",
			"field_password_relation": "Password Relation",
			"label_copied_from":       "Copied from",
			"label_attachment":        "File",
			"label_comment":           "Comment",
			"label_custom_field":      "Custom field %s",
			"general_text_Yes":        "Yes",
			"general_text_No":         "No",
		}),
		"de": newCatalog("de", map[string]string{
			"field_tracker":           "Tracker",
			"field_project":           "Projekt",
			"field_status":            "Status",
			"field_priority":          "Priorität",
			"field_category":          "Kategorie",
			"field_assigned_to":       "Zugewiesen an",
			"field_author":            "Autor",
			"field_fixed_version":     "Zielversion",
			"field_subject":           "Thema",
			"field_title":             "Titel",
			"field_description":       "Beschreibung",
			"field_estimated_hours":   "Geschätzter Aufwand",
			"field_start_date":        "Beginn",
			"field_due_date":          "Abgabedatum",
			"field_done_ratio":        "% erledigt",
			"field_is_private":        "Privat",
			"field_parent_issue":      "Übergeordnete Aufgabe",
			"field_watcher":           "Beobachter",
			"field_db_relation":       "DB-Beziehung",
			"field_password_relation": "Passwort-Beziehung",
			"label_copied_from":       "Kopiert von",
			"label_attachment":        "Datei",
			"label_comment":           "Kommentar",
			"label_custom_field":      "Benutzerdefiniertes Feld %s",
			"general_text_Yes":        "Ja",
			"general_text_No":         "Nein",
		}),
	}
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}

// NewTranslator builds a translator over the built-in catalog.
func NewTranslator() (i18n.Translator, error) {
	store := i18n.NewStaticStore(Translations())
	return i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale(DefaultLocale))
}

// Labels translates label keys for one locale. Missing keys are humanized
// instead of failing.
type Labels struct {
	translator i18n.Translator
	locale     string
}

// NewLabels returns Labels for locale. A nil translator only humanizes.
func NewLabels(translator i18n.Translator, locale string) *Labels {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	return &Labels{translator: translator, locale: locale}
}

// Locale reports the locale labels are translated into.
func (l *Labels) Locale() string {
	if l == nil {
		return DefaultLocale
	}
	return l.locale
}

// Label returns the translation of key.
func (l *Labels) Label(key string, args ...any) string {
	if l != nil && l.translator != nil {
		if value, err := l.translator.Translate(l.locale, key, args...); err == nil && value != "" && value != key {
			return value
		}
		if l.locale != DefaultLocale {
			if value, err := l.translator.Translate(DefaultLocale, key, args...); err == nil && value != "" && value != key {
				return value
			}
		}
	}
	return humanize(key)
}

// humanize turns "field_start_date" into "Start date".
func humanize(key string) string {
	for _, prefix := range []string{"field_", "label_", "general_text_"} {
		key = strings.TrimPrefix(key, prefix)
	}
	key = strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if key == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(key)
	return string(unicode.ToUpper(r)) + key[size:]
}
