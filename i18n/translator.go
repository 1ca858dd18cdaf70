package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for violation codes.
// data provides optional values to embed in the message (for example,
// "path", "from" or "to").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_changed":
			return expand("{path} の型が {from} から {to} に変更されました", data)
		case "properties_removed":
			return "properties の指定が削除されました"
		case "properties_added":
			return "properties の指定が追加されました"
		case "no_longer_required":
			return "必須ではなくなりました"
		case "required_removed":
			return "必須フィールドが削除されました"
		case "now_required":
			return "必須になりました"
		case "required_added":
			return "必須フィールドが追加されました"
		case "not_compatible":
			return expand("{type} 互換ではありません: {path} {reason}", data)
		}
	default: // "en"
		switch code {
		case "type_changed":
			return expand("Type at {path} changed from {from} to {to}", data)
		case "properties_removed":
			return "properties specification removed"
		case "properties_added":
			return "properties specification added"
		case "no_longer_required":
			return "is not required anymore"
		case "required_removed":
			return "required field removed"
		case "now_required":
			return "is now required"
		case "required_added":
			return "required field added"
		case "not_compatible":
			return expand("Not {type} compatible, {path} {reason}", data)
		}
	}
	return code
}

// expand replaces {key} placeholders with values from data.
func expand(format string, data map[string]string) string {
	if len(data) == 0 {
		return format
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(format)
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
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
