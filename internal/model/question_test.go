package model

import "testing"

func TestOptionsFollowAnswerIDOrder(t *testing.T) {
	q := Question{
		Answers: []Answer{
			{ID: 30, Text: "c"},
			{ID: 10, Text: "a", IsCorrect: true},
			{ID: 20, Text: "b"},
		},
	}
	options := q.Options()
	if options[0] != "a" || options[1] != "b" || options[2] != "c" {
		t.Errorf("Options = %v, want id-ascending [a b c]", options)
	}
	if got := q.CorrectIndex(); got != 0 {
		t.Errorf("CorrectIndex = %d, want 0", got)
	}
}

func TestCorrectIndexFallback(t *testing.T) {
	// Rows without a correct flag score against the first option.
	q := Question{Answers: []Answer{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}}
	if got := q.CorrectIndex(); got != 0 {
		t.Errorf("CorrectIndex without a flag = %d, want 0", got)
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(1, 2); got != 50 {
		t.Errorf("Percentage(1,2) = %v, want 50", got)
	}
	if got := Percentage(0, 0); got != 0 {
		t.Errorf("Percentage(0,0) = %v, want 0", got)
	}
}

func TestAttemptResultsRoundTrip(t *testing.T) {
	attempt := QuizAttempt{}
	in := []QuestionResult{{QuestionID: 5, Question: "q?", UserAnswer: -1, CorrectAnswer: 2}}
	if err := attempt.SetResults(in); err != nil {
		t.Fatalf("SetResults: %v", err)
	}
	out, err := attempt.GetResults()
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if len(out) != 1 || out[0].UserAnswer != -1 || out[0].CorrectAnswer != 2 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestGetResultsEmpty(t *testing.T) {
	attempt := QuizAttempt{}
	out, err := attempt.GetResults()
	if err != nil || out != nil {
		t.Errorf("GetResults on empty = %v, %v", out, err)
	}
}
