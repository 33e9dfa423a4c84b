package questions

import (
	"os"
	"path/filepath"
	"testing"
)

func writeQuestions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeQuestions(t, `
questions:
  - "Tell us about yourself."
  - "Why this role?"
`)
	set, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if set.Count() != 2 {
		t.Fatalf("expected 2 questions, got %d", set.Count())
	}
	if set.Questions[1] != "Why this role?" {
		t.Fatalf("unexpected question: %q", set.Questions[1])
	}
}

func TestLoadRejectsEmptySet(t *testing.T) {
	path := writeQuestions(t, "questions: []\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty question set")
	}
}

func TestLoadRejectsBlankQuestion(t *testing.T) {
	path := writeQuestions(t, "questions:\n  - \"ok\"\n  - \"   \"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for blank question")
	}
}

func TestDefaultSet(t *testing.T) {
	set := Default()
	if set.Count() == 0 {
		t.Fatal("built-in set must not be empty")
	}
	for i, question := range set.Questions {
		if question == "" {
			t.Fatalf("built-in question %d is empty", i+1)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
