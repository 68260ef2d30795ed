// Package llm - extractor.go builds schema-described extraction prompts.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeExtraction")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string // Description for the LLM
	Required    bool
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent facts.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// FieldPrompt builds a single-purpose prompt asking for one field of the schema.
// It is used when the model cannot produce the whole object at once.
func FieldPrompt(schema ExtractionSchema, field SchemaField, inputText string) string {
	var sb strings.Builder
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")
	if strings.HasPrefix(field.Type, "[") {
		sb.WriteString(fmt.Sprintf("List the %s, one per line, with no numbering or commentary.", field.Description))
	} else {
		sb.WriteString(fmt.Sprintf("Answer with only the %s, no commentary.", field.Description))
	}
	sb.WriteString("\n\nInput text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// ResumeExtractionSchema returns the extraction schema for résumé analysis.
func ResumeExtractionSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeExtraction",
		Description: `You are an expert resume analyst. Read the resume below and extract the candidate's profile.
Only report what the resume states or clearly implies.`,
		Fields: []SchemaField{
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "technical and professional skills",
				Required:    true,
			},
			{
				Name:        "experience_years",
				Type:        "number",
				Description: "total years of professional experience",
			},
			{
				Name:        "education_level",
				Type:        "\"string\"",
				Description: "highest education level (e.g. Bachelor's, Master's, PhD)",
			},
			{
				Name:        "job_titles",
				Type:        "[\"string\"]",
				Description: "job titles held",
			},
			{
				Name:        "companies",
				Type:        "[\"string\"]",
				Description: "companies worked for",
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "two sentence professional summary",
			},
			{
				Name:        "strengths",
				Type:        "[\"string\"]",
				Description: "key professional strengths",
			},
			{
				Name:        "technologies",
				Type:        "[\"string\"]",
				Description: "tools, languages and frameworks used",
			},
		},
	}
}
