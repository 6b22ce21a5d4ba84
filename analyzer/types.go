package analyzer

// AnalysisResult is the structured output produced for one letter image.
// The three list fields are never nil so they serialize as [] rather than null.
type AnalysisResult struct {
	Summary        string   `json:"summary"`
	Highlights     []string `json:"highlights"`
	WhatToDo       []string `json:"what_to_do"`
	ImportantDates []string `json:"important_dates"`
	EmailPrompt    string   `json:"email_prompt,omitempty"`
}
