//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestCreateInterviewRequest_Validation(t *testing.T) {
	manySkills := make([]string, 51)
	for i := range manySkills {
		manySkills[i] = "skill"
	}

	tests := []struct {
		name    string
		request CreateInterviewRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "job description only",
			request: CreateInterviewRequest{JobDescription: "Build Go services."},
		},
		{
			name:    "role title only",
			request: CreateInterviewRequest{RoleTitle: "Backend Engineer"},
		},
		{
			name:    "job url only",
			request: CreateInterviewRequest{JobURL: "https://jobs.example.com/123"},
		},
		{
			name: "full request",
			request: CreateInterviewRequest{
				JobDescription:  "Build Go services.",
				RoleTitle:       "Backend Engineer",
				RequiredSkills:  []string{"Go", "Kafka"},
				CandidateSkills: []string{"go"},
				QuestionCount:   3,
				Start:           true,
			},
		},
		{
			name:    "nothing to build questions from",
			request: CreateInterviewRequest{},
			wantErr: true,
			errMsg:  "required_without",
		},
		{
			name:    "invalid job url",
			request: CreateInterviewRequest{JobURL: "not a url"},
			wantErr: true,
			errMsg:  "url",
		},
		{
			name:    "role title too long",
			request: CreateInterviewRequest{RoleTitle: strings.Repeat("a", 201)},
			wantErr: true,
			errMsg:  "max",
		},
		{
			name:    "blank required skill",
			request: CreateInterviewRequest{RoleTitle: "SRE", RequiredSkills: []string{"Go", ""}},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "too many required skills",
			request: CreateInterviewRequest{RoleTitle: "SRE", RequiredSkills: manySkills},
			wantErr: true,
			errMsg:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSubmitAnswerRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request SubmitAnswerRequest
		wantErr bool
	}{
		{name: "first question", request: SubmitAnswerRequest{QuestionIndex: intPtr(0), Answer: "I would shard it."}},
		{name: "blank answer allowed", request: SubmitAnswerRequest{QuestionIndex: intPtr(2)}},
		{name: "missing index", request: SubmitAnswerRequest{Answer: "text"}, wantErr: true},
		{name: "negative index", request: SubmitAnswerRequest{QuestionIndex: intPtr(-1)}, wantErr: true},
		{name: "answer too long", request: SubmitAnswerRequest{QuestionIndex: intPtr(0), Answer: strings.Repeat("x", 20001)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalyzeResumeRequest_Validation(t *testing.T) {
	assert.NoError(t, (&AnalyzeResumeRequest{ResumeText: "Go engineer"}).Validate())
	assert.Error(t, (&AnalyzeResumeRequest{}).Validate())
	assert.Error(t, (&AnalyzeResumeRequest{ResumeText: strings.Repeat("x", 100001)}).Validate())
}
