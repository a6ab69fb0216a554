package dto

// ImportDocument is the bulk-upload format: one subject per document with its
// full topic → class → level → quiz → question tree. The whole document is
// applied as one transaction with upsert-by-natural-key semantics.
type ImportDocument struct {
	Subject SubjectImport `json:"subject" binding:"required"`
}

type SubjectImport struct {
	Name   string        `json:"name" binding:"required"`
	Topics []TopicImport `json:"topics" binding:"dive"`
}

type TopicImport struct {
	Name    string        `json:"name" binding:"required"`
	Classes []ClassImport `json:"classes" binding:"dive"`
}

type ClassImport struct {
	Name   string        `json:"name" binding:"required"`
	Levels []LevelImport `json:"levels" binding:"dive"`
}

type LevelImport struct {
	Name    string       `json:"name" binding:"required"`
	Quizzes []QuizImport `json:"quizzes" binding:"dive"`
}

type QuizImport struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	TimeLimit   *int             `json:"time_limit"` // minutes; defaults to 30
	Questions   []QuestionImport `json:"questions" binding:"dive"`
}

type QuestionImport struct {
	Question    string   `json:"question" binding:"required"`
	Options     []string `json:"options" binding:"required,min=2"`
	Answer      *int     `json:"answer" binding:"required,min=0"`
	Explanation string   `json:"explanation"`
}
