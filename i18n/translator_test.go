package i18n_test

import (
	"testing"

	"github.com/reoring/typekit/i18n"
)

func TestT_DefaultEnglish(t *testing.T) {
	i18n.SetLanguage("en")
	if got := i18n.T("type_mismatch", nil); got != "value does not satisfy the expected type" {
		t.Fatalf("got %q", got)
	}
}

func TestT_Japanese(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if got := i18n.T("missing_type", nil); got != "型記述が指定されていません" {
		t.Fatalf("got %q", got)
	}
}

func TestT_UnknownCodeFallsBackToCode(t *testing.T) {
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("got %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_ReplaceAndReset(t *testing.T) {
	i18n.SetTranslator(upperTranslator{})
	if got := i18n.T("type_mismatch", nil); got != "X:type_mismatch" {
		t.Fatalf("got %q", got)
	}
	i18n.SetTranslator(nil)
	if got := i18n.T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("got %q", got)
	}
}
