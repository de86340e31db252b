package i18n

import "testing"

func TestT_English(t *testing.T) {
	tr, err := Load("en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := tr.T("loop.no_speech")
	want := "I didn't hear anything. Please try again."
	if got != want {
		t.Errorf("T(loop.no_speech) = %q, want %q", got, want)
	}
}

func TestT_Italian(t *testing.T) {
	tr, err := Load("it")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tr.T("loop.no_intent"); got != "Non sono sicuro di come aiutarti." {
		t.Errorf("T(loop.no_intent) = %q", got)
	}
	if got := tr.Language(); got != "it" {
		t.Errorf("Language() = %q, want it", got)
	}
}

func TestT_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	tr, err := Load("de")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := tr.T("loop.error")
	want := "Sorry, I encountered an error processing your request."
	if got != want {
		t.Errorf("T(loop.error) = %q, want %q", got, want)
	}
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	tr, err := Load("en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tr.T("no.such.key"); got != "no.such.key" {
		t.Errorf("T(no.such.key) = %q, want the key back", got)
	}
}
