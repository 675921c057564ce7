package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data provides optional values to embed in the message; placeholders are
// written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":    "invalid type for '{path}': {detail}",
		"required":        "mandatory field missing",
		"field_not_found": "Mandatory JSON element '{path}' was not found for type '{type}'",
		"field_was_null":  "Mandatory JSON element '{path}' was null for type '{type}'",
		"duplicate_key":   "duplicate key",
		"parse_error":     "parse error",
		"truncated":       "truncated",
	},
	"ja": {
		"invalid_type":    "'{path}' の型が不正です: {detail}",
		"required":        "必須フィールドが不足しています",
		"field_not_found": "型 '{type}' の必須JSON要素 '{path}' が見つかりません",
		"field_was_null":  "型 '{type}' の必須JSON要素 '{path}' がnullです",
		"duplicate_key":   "キーが重複しています",
		"parse_error":     "解析エラー",
		"truncated":       "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
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
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
