package i18n

// Translator retrieves localized messages for diagnostic codes. data provides
// optional metadata to embed in the message (for example, "path" or
// "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "type_mismatch":
			return "値が期待される型に一致しません"
		case "missing_type":
			return "型記述が指定されていません"
		case "model_error":
			return "型モデルがサポートされていません"
		case "compile_error":
			return "スキーマのコンパイルに失敗しました"
		}
	default: // "en"
		switch code {
		case "type_mismatch":
			return "value does not satisfy the expected type"
		case "missing_type":
			return "no type description supplied"
		case "model_error":
			return "unsupported type model"
		case "compile_error":
			return "schema compilation failed"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
