package model

import "github.com/google/uuid"

// Question represents a single four-option exam question.
type Question struct {
	ID            uuid.UUID `json:"id"`
	ExamID        uuid.UUID `json:"exam_id"`
	Text          string    `json:"text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option"`
}

// StudentQuestion is a question stripped of its correct option.
type StudentQuestion struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	OptionA string    `json:"option_a"`
	OptionB string    `json:"option_b"`
	OptionC string    `json:"option_c"`
	OptionD string    `json:"option_d"`
}

// ForStudent returns the question without the answer key material.
func (q Question) ForStudent() StudentQuestion {
	return StudentQuestion{
		ID:      q.ID,
		Text:    q.Text,
		OptionA: q.OptionA,
		OptionB: q.OptionB,
		OptionC: q.OptionC,
		OptionD: q.OptionD,
	}
}

// AddQuestionRequest is the payload for adding a question to an exam.
type AddQuestionRequest struct {
	Text          string `json:"text" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,max=500"`
	OptionB       string `json:"option_b" binding:"required,max=500"`
	OptionC       string `json:"option_c" binding:"required,max=500"`
	OptionD       string `json:"option_d" binding:"required,max=500"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
}

// UpdateQuestionRequest is the payload for editing a question.
type UpdateQuestionRequest = AddQuestionRequest
