package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseQuestionsCSV(t *testing.T) {
	examID := uuid.New()
	csv := strings.Join([]string{
		"text,a,b,c,d,correct",
		"What is 2+2?,1,2,3,4,D",
		`"Pick the capital, please",Delhi,Mumbai,Pune,Goa,a`,
	}, "\n")

	questions, err := parseQuestionsCSV(examID, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}

	first := questions[0]
	if first.ExamID != examID {
		t.Fatalf("question not bound to exam: %s", first.ExamID)
	}
	if first.Text != "What is 2+2?" || first.OptionD != "4" || first.CorrectOption != "D" {
		t.Fatalf("row mapped wrong: %+v", first)
	}

	// Quoted commas survive; correct option label is uppercased.
	second := questions[1]
	if second.Text != "Pick the capital, please" {
		t.Fatalf("quoted text mangled: %q", second.Text)
	}
	if second.CorrectOption != "A" {
		t.Fatalf("correct option not normalized: %q", second.CorrectOption)
	}
}

func TestParseQuestionsCSVRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"wrong header", "question,a,b,c,d,answer\nfoo,1,2,3,4,A"},
		{"header only", "text,a,b,c,d,correct"},
		{"missing column", "text,a,b,c,d,correct\nfoo,1,2,3,A"},
		{"empty field", "text,a,b,c,d,correct\nfoo,1,,3,4,A"},
		{"bad correct option", "text,a,b,c,d,correct\nfoo,1,2,3,4,E"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseQuestionsCSV(uuid.New(), strings.NewReader(tc.csv))
			if !errors.Is(err, ErrMalformedCSV) {
				t.Fatalf("expected ErrMalformedCSV, got %v", err)
			}
		})
	}
}
