package dto

type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AnswerRequest records the selected option index for the question at the
// session cursor. Pointer so that option 0 survives required-validation.
type AnswerRequest struct {
	Selected *int `json:"selected" binding:"required,min=0"`
}

// CursorRequest moves the session cursor. Index is only read for "jump".
type CursorRequest struct {
	Action string `json:"action" binding:"required,oneof=next prev jump"`
	Index  int    `json:"index"`
}

type QuizMetaUpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit" binding:"required,min=1"`
}

// QuestionRequest creates or replaces a question together with its full
// option set. Answer is the index of the correct option.
type QuestionRequest struct {
	Question    string   `json:"question" binding:"required"`
	Options     []string `json:"options" binding:"required,min=2"`
	Answer      *int     `json:"answer" binding:"required,min=0"`
	Explanation string   `json:"explanation"`
}

type UserCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type UserUpdateRequest struct {
	Username *string `json:"username"`
	IsAdmin  *bool   `json:"is_admin"`
}

type PasswordResetRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}
