package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"linkboard/backend/common"
)

//go:embed locales/*.json
var builtinLocales embed.FS

var (
	messages     = make(map[string]map[string]string)
	messagesLock sync.RWMutex
)

func init() {
	entries, err := builtinLocales.ReadDir("locales")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		data, err := builtinLocales.ReadFile("locales/" + entry.Name())
		if err != nil {
			panic(err)
		}
		if err := loadLocale(entry.Name(), data); err != nil {
			panic(err)
		}
	}
}

// Init loads every <lang>.json file in dir, overriding built-in messages.
func Init(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read locale %s: %w", file, err)
		}
		if err := loadLocale(filepath.Base(file), data); err != nil {
			return err
		}
	}
	return nil
}

func loadLocale(fileName string, data []byte) error {
	lang := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse locale %s: %w", fileName, err)
	}

	messagesLock.Lock()
	defer messagesLock.Unlock()
	if messages[lang] == nil {
		messages[lang] = make(map[string]string)
	}
	for code, msg := range entries {
		messages[lang][code] = msg
	}
	return nil
}

// Translate 翻译错误码；语言不存在时回退到默认语言，错误码不存在时返回错误码本身
func Translate(code string, lang string, args ...interface{}) string {
	messagesLock.RLock()
	msg, ok := lookup(code, lang)
	messagesLock.RUnlock()
	if !ok {
		return code
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func lookup(code string, lang string) (string, bool) {
	for _, candidate := range candidates(lang) {
		if msg, ok := messages[candidate][code]; ok {
			return msg, true
		}
	}
	return "", false
}

// zh-CN -> zh-CN, zh, en
func candidates(lang string) []string {
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	result := make([]string, 0, 3)
	if lang != "" {
		result = append(result, lang)
		if base, _, found := strings.Cut(lang, "-"); found {
			result = append(result, strings.ToLower(base))
		}
	}
	return append(result, common.DefaultLang)
}
