package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Quizdeck" {
		t.Errorf("T(AppTitle) = %q, want 'Quizdeck'", got)
	}

	got = T(ctx, "NotChecked")
	if got != "Check the answer first." {
		t.Errorf("T(NotChecked) = %q, want 'Check the answer first.'", got)
	}
}

func TestTranslateKorean(t *testing.T) {
	ctx := initLang(t, "ko")

	got := T(ctx, "AppTitle")
	if got != "퀴즈덱" {
		t.Errorf("T(AppTitle) = %q, want '퀴즈덱'", got)
	}

	got = T(ctx, "NotChecked")
	if got != "먼저 답을 확인하세요." {
		t.Errorf("T(NotChecked) = %q, want '먼저 답을 확인하세요.'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "QuestionsAvailable", 1)
	if got1 != "1 question available." {
		t.Errorf("Tp(QuestionsAvailable, 1) = %q, want '1 question available.'", got1)
	}

	got5 := Tp(ctx, "QuestionsAvailable", 5)
	if got5 != "5 questions available." {
		t.Errorf("Tp(QuestionsAvailable, 5) = %q, want '5 questions available.'", got5)
	}
}

func TestKoreanPluralHasSingleForm(t *testing.T) {
	ctx := initLang(t, "ko")

	got := Tp(ctx, "QuestionsAvailable", 1)
	if got != "문제 1개가 있습니다." {
		t.Errorf("Tp(QuestionsAvailable, 1) = %q, want '문제 1개가 있습니다.'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "ReportSummary", map[string]any{"Score": 75, "Correct": 3, "Total": 4})
	if got != "You scored 75% (3 of 4 correct)." {
		t.Errorf("Td(ReportSummary) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestFallbackWithoutLocalizer(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// A bare context falls back to the default language.
	got := T(context.Background(), "AppTitle")
	if got != "Quizdeck" {
		t.Errorf("T(AppTitle) without localizer = %q, want 'Quizdeck'", got)
	}
}
