// Package i18n holds the message catalogue used to render validation errors.
package i18n

import (
	"strings"
	"sync"
)

// Message keys. Several keys may share one error code (for example both count
// keys below report too_small).
const (
	InvalidType      = "invalid_type"
	MissingKey       = "missing_key"
	Required         = "required"
	UnknownKey       = "unknown_key"
	ArrayTooSmall    = "array_too_small"
	ArrayTooBig      = "array_too_big"
	ObjectTooSmall   = "object_too_small"
	ObjectTooBig     = "object_too_big"
	InvalidEnum      = "invalid_enum"
	Pattern          = "pattern"
	Custom           = "custom"
	NoMatch          = "no_match"
	UnresolvedType   = "unresolved_type"
	DuplicateKey     = "duplicate_key"
	InvalidUUID      = "invalid_uuid"
	InvalidTimestamp = "invalid_timestamp"
)

// Translator retrieves localized messages for message keys. data provides
// values substituted into {placeholders}.
type Translator interface {
	Message(key string, data map[string]string) string
}

var catalogue = map[string]map[string]string{
	"en": {
		InvalidType:      "Not {expected}.",
		MissingKey:       "Doesn't have key '{key}'.",
		Required:         "Key '{key}' is missing.",
		UnknownKey:       "Key '{key}' is not valid.",
		ArrayTooSmall:    "Array count is {count}, but should be at least {min}.",
		ArrayTooBig:      "Array count is {count}, but should be at most {max}.",
		ObjectTooSmall:   "Object property count is {count}, but should be at least {min}.",
		ObjectTooBig:     "Object property count is {count}, but should be at most {max}.",
		InvalidEnum:      "Not one of ({options}).",
		Pattern:          "Not a match for regex {pattern}.",
		Custom:           "Not {name}.",
		NoMatch:          "Not {name}.",
		UnresolvedType:   "Type '{name}' is not defined.",
		DuplicateKey:     "key '{key}' duplicated",
		InvalidUUID:      "Not a UUID.",
		InvalidTimestamp: "Not an RFC 3339 timestamp.",
	},
	"ja": {
		InvalidType:      "型が不正です（期待: {expected}）",
		MissingKey:       "キー '{key}' がありません",
		Required:         "必須キー '{key}' が不足しています",
		UnknownKey:       "キー '{key}' は許可されていません",
		ArrayTooSmall:    "配列の要素数が {count} です（最小 {min}）",
		ArrayTooBig:      "配列の要素数が {count} です（最大 {max}）",
		ObjectTooSmall:   "プロパティ数が {count} です（最小 {min}）",
		ObjectTooBig:     "プロパティ数が {count} です（最大 {max}）",
		InvalidEnum:      "({options}) のいずれでもありません",
		Pattern:          "正規表現 {pattern} に一致しません",
		Custom:           "{name} ではありません",
		NoMatch:          "{name} のいずれにも一致しません",
		UnresolvedType:   "型 '{name}' が定義されていません",
		DuplicateKey:     "キー '{key}' が重複しています",
		InvalidUUID:      "UUID ではありません",
		InvalidTimestamp: "RFC 3339 形式の日時ではありません",
	},
}

// dictTranslator is the built-in dictionary-based Translator. Keys missing in
// the selected language fall back to English, then to the key itself.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(key string, data map[string]string) string {
	tmpl, ok := catalogue[t.lang][key]
	if !ok {
		if tmpl, ok = catalogue["en"][key]; !ok {
			return key
		}
	}
	return Expand(tmpl, data)
}

// Expand substitutes {name} placeholders in tmpl with values from data.
// Unknown placeholders are left as written.
func Expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given key using the current Translator.
func T(key string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(key, data)
}
