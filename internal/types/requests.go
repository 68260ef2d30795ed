package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateInterviewRequest is the body of POST /interviews.
// Either a job description or a role title must be given.
type CreateInterviewRequest struct {
	JobDescription  string   `json:"job_description" validate:"required_without=RoleTitle,max=20000"`
	JobURL          string   `json:"job_url,omitempty" validate:"omitempty,url"`
	RoleTitle       string   `json:"role_title,omitempty" validate:"max=200"`
	RequiredSkills  []string `json:"required_skills,omitempty" validate:"max=50,dive,required,max=100"`
	CandidateSkills []string `json:"candidate_skills,omitempty" validate:"max=100,dive,required,max=100"`
	// QuestionCount is clamped to [1, 10]; zero means 5
	QuestionCount int  `json:"question_count,omitempty"`
	Start         bool `json:"start,omitempty"` // start the session immediately
}

// SubmitAnswerRequest is the body of POST /interviews/{id}/answers
type SubmitAnswerRequest struct {
	QuestionIndex *int   `json:"question_index" validate:"required,min=0"`
	Answer        string `json:"answer" validate:"max=20000"`
}

// AnalyzeResumeRequest is the body of POST /resumes/analyze
type AnalyzeResumeRequest struct {
	ResumeText string `json:"resume_text" validate:"required,max=100000"`
}

// Validate validates the CreateInterviewRequest using the validator.
func (r *CreateInterviewRequest) Validate() error {
	if r.JobURL != "" && r.JobDescription == "" {
		// the description is fetched from the URL
		return validate.StructExcept(r, "JobDescription")
	}
	return validate.Struct(r)
}

// Validate validates the SubmitAnswerRequest using the validator.
func (r *SubmitAnswerRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnalyzeResumeRequest using the validator.
func (r *AnalyzeResumeRequest) Validate() error {
	return validate.Struct(r)
}
