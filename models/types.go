package models

import "time"

// Question states derived from pub_date, end_date and the current moment
const (
	StateNotPublished = "not_published"
	StateOpen         = "open"
	StateClosed       = "closed"
)

// Flash message levels
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelDanger  = "danger"
)

// Domain types

type Question struct {
	ID      string     `json:"id"`
	Text    string     `json:"text"`
	PubDate time.Time  `json:"pub_date"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// Votes is always counted from the vote table, never stored
type Choice struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
}

type Vote struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"` // Never expose in JSON
	QuestionID string    `json:"question_id"`
	ChoiceID   string    `json:"choice_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

type QuestionWithChoices struct {
	Question Question `json:"question"`
	State    string   `json:"state"`
	Choices  []Choice `json:"choices"`
}

// Request types

type CreateQuestionRequest struct {
	Text    string     `json:"text"`
	PubDate *time.Time `json:"pub_date"` // defaults to now
	EndDate *time.Time `json:"end_date"`
	Choices []string   `json:"choices"`
}

type AddChoiceRequest struct {
	Text string `json:"text"`
}

type UpdateDatesRequest struct {
	PubDate time.Time  `json:"pub_date"`
	EndDate *time.Time `json:"end_date"`
}

// Response types

type CreateQuestionResponse struct {
	QuestionID string   `json:"question_id"`
	ChoiceIDs  []string `json:"choice_ids"`
}

type AddChoiceResponse struct {
	ChoiceID string `json:"choice_id"`
}

type ResultsResponse struct {
	Question   Question `json:"question"`
	State      string   `json:"state"`
	Choices    []Choice `json:"choices"`
	TotalVotes int      `json:"total_votes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
