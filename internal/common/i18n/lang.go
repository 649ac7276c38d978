// internal/common/i18n/lang.go
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported site language.
type Lang string

const (
	English Lang = "en"
	Chinese Lang = "zh"
)

// Supported lists the site languages, default first.
var Supported = []Lang{English, Chinese}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Chinese,
})

// IsValid reports whether l is one of the supported languages.
func (l Lang) IsValid() bool {
	return l == English || l == Chinese
}

func (l Lang) String() string {
	return string(l)
}

// Parse accepts exactly "en" or "zh".
func Parse(s string) (Lang, bool) {
	l := Lang(s)
	if !l.IsValid() {
		return "", false
	}
	return l, true
}

// Normalize maps any language tag onto a supported language, falling back to English.
// "zh-CN", "zh_TW" and "ZH" all become Chinese.
func Normalize(s string) Lang {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	base, _ := tag.Base()
	if base.String() == string(Chinese) {
		return Chinese
	}
	return English
}

// Negotiate picks a language from an Accept-Language header value.
func Negotiate(acceptLanguage string) Lang {
	if strings.TrimSpace(acceptLanguage) == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return Supported[idx]
}

// Text is a string localized per language.
type Text map[Lang]string

// Get returns the text for lang, or the English text when lang is missing.
func (t Text) Get(lang Lang) string {
	if s, ok := t[lang]; ok {
		return s
	}
	return t[English]
}
