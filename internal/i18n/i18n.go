package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

const (
	LangRU = "ru"
	LangEN = "en"
)

var requiredLanguages = []string{LangEN, LangRU}

// Manager resolves message keys per language. Every catalog already contains the default
// language's messages underneath its own, so lookups never walk a fallback chain.
type Manager struct {
	defaultLanguage string
	raw             map[string]map[string]string
	catalogs        map[string]map[string]string
	languages       []string
}

// NewEmbeddedManager loads the locales compiled into the binary.
func NewEmbeddedManager(defaultLanguage string) (*Manager, error) {
	locales, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return NewManager(defaultLanguage, locales)
}

func NewManager(defaultLanguage string, locales fs.FS) (*Manager, error) {
	raw, err := loadLocales(locales)
	if err != nil {
		return nil, err
	}
	for _, language := range requiredLanguages {
		if _, ok := raw[language]; !ok {
			return nil, fmt.Errorf("required locale %q missing", language)
		}
	}

	manager := &Manager{raw: raw, catalogs: make(map[string]map[string]string, len(raw))}
	for language := range raw {
		manager.languages = append(manager.languages, language)
	}
	sort.Strings(manager.languages)

	manager.defaultLanguage = normalizeLanguageTag(defaultLanguage)
	if _, ok := raw[manager.defaultLanguage]; !ok {
		manager.defaultLanguage = LangEN
	}

	base := raw[manager.defaultLanguage]
	for language, messages := range raw {
		merged := make(map[string]string, len(base)+len(messages))
		for key, value := range base {
			merged[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.catalogs[language] = merged
	}
	return manager, nil
}

func loadLocales(locales fs.FS) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	raw := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		language := strings.ToLower(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		content, err := fs.ReadFile(locales, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}
		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		raw[language] = messages
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no locales found")
	}
	return raw, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) Languages() []string {
	return append([]string(nil), manager.languages...)
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	if language := normalizeLanguageTag(raw); manager.supports(language) {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest quality value.
// Ties keep header order and q=0 entries are refused.
func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	best := ""
	bestQuality := 0.0
	for _, part := range strings.Split(header, ",") {
		tag, quality := parseLanguageRange(part)
		if quality <= bestQuality || !manager.supports(tag) {
			continue
		}
		best, bestQuality = tag, quality
	}
	if best == "" {
		return manager.defaultLanguage
	}
	return best
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.catalogs[manager.NormalizeLanguage(language)][key]; ok {
		return value
	}
	return key
}

// Translatef formats the translated message. Unknown keys come back verbatim without formatting.
func (manager *Manager) Translatef(language string, key string, args ...any) string {
	format := manager.Translate(language, key)
	if format == key {
		return key
	}
	return fmt.Sprintf(format, args...)
}

// MissingKeys lists keys the default language defines that language does not, sorted.
func (manager *Manager) MissingKeys(language string) []string {
	own := manager.raw[normalizeLanguageTag(language)]
	missing := make([]string, 0)
	for key := range manager.raw[manager.defaultLanguage] {
		if _, ok := own[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func (manager *Manager) supports(language string) bool {
	_, ok := manager.catalogs[language]
	return ok
}

func parseLanguageRange(part string) (string, float64) {
	fields := strings.Split(part, ";")
	tag := normalizeLanguageTag(fields[0])
	if tag == "" {
		return "", 0
	}
	quality := 1.0
	for _, param := range fields[1:] {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return "", 0
		}
		quality = parsed
	}
	return tag, quality
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	if primary, _, found := strings.Cut(language, "-"); found {
		language = primary
	}
	return language
}
