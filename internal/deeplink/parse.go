// Package deeplink разбирает ссылки собственной схемы приложения и доставляет
// извлечённый код активации окну приложения.
package deeplink

import (
	"net/url"
	"strings"
)

const activatePrefix = "activate/"

// Parse извлекает код активации из ссылки со схемой scheme.
//
// Поддерживаемые формы пути: /activate/<code>, activate/<code> (так ссылку
// отдают некоторые ОС) и /<code> без хоста. Схема сравнивается без учёта
// регистра, как и сегмент activate. Регистр кода сохраняется. Query и
// fragment игнорируются. ok=false, если схема другая или
// код пустой.
func Parse(rawURL, scheme string) (code string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || !strings.EqualFold(u.Scheme, scheme) {
		return "", false
	}

	var path string
	bare := false
	switch {
	case u.Opaque != "":
		// goodhang:activate/<code>
		path, err = url.PathUnescape(u.Opaque)
		if err != nil {
			return "", false
		}
	case u.Host != "":
		// goodhang://activate/<code>: хостом становится "activate"
		path = u.Host + u.Path
	default:
		path = u.Path
		bare = true
	}

	path = strings.TrimSuffix(strings.TrimLeft(path, "/"), "/")
	if rest, found := cutPrefixFold(path, activatePrefix); found {
		code = rest
	} else if bare && !strings.EqualFold(path, strings.TrimSuffix(activatePrefix, "/")) {
		code = path
	} else {
		return "", false
	}

	code = strings.TrimSpace(code)
	if code == "" || strings.Contains(code, "/") {
		return "", false
	}
	return code, true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
