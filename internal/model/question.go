package model

import "sort"

type Question struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	QuizID      uint     `json:"quiz_id" gorm:"not null;index"`
	Text        string   `json:"question" gorm:"column:question;type:text;not null"`
	Explanation string   `json:"explanation,omitempty" gorm:"type:text"`
	Answers     []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// SortedAnswers returns the answer set in id-ascending order, which is the
// presentation order (insertion order, never randomized).
func (q *Question) SortedAnswers() []Answer {
	answers := make([]Answer, len(q.Answers))
	copy(answers, q.Answers)
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers
}

// Options returns the answer texts in presentation order.
func (q *Question) Options() []string {
	answers := q.SortedAnswers()
	options := make([]string, len(answers))
	for i, a := range answers {
		options[i] = a.Text
	}
	return options
}

// CorrectIndex returns the position of the answer flagged correct within the
// presentation order. Falls back to 0 when no answer carries the flag, which
// matches how legacy rows without a flag were scored.
func (q *Question) CorrectIndex() int {
	for i, a := range q.SortedAnswers() {
		if a.IsCorrect {
			return i
		}
	}
	return 0
}
