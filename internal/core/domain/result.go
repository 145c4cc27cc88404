package domain

import "encoding/json"

// BackendResponse is the tagged result of one backend call. Exactly one of
// Structured and Artifact is set; the tag is decided by the response's
// declared content type, never by what the request asked for.
type BackendResponse struct {
	Structured json.RawMessage
	Artifact   *Artifact
}

func (r *BackendResponse) IsArtifact() bool { return r.Artifact != nil }

// DecodeInto unmarshals the structured payload into out.
func (r *BackendResponse) DecodeInto(out any) error {
	return json.Unmarshal(r.Structured, out)
}

// Artifact is a binary response body plus its media type and the raw
// Content-Disposition header it arrived with.
type Artifact struct {
	Data        []byte
	MimeType    string
	Disposition string
}

// SavedArtifact describes a persisted artifact. Pages is zero unless the
// artifact was a readable PDF.
type SavedArtifact struct {
	Path  string
	Size  int64
	Pages int
}

// GeneratedContent is the structured (interactive) result of a /create/*
// call.
type GeneratedContent struct {
	EnglishAnswer      string          `json:"english_answer"`
	TranslatedAnswer   string          `json:"translated_answer"`
	Language           string          `json:"language"`
	Sources            []string        `json:"sources"`
	HolidaysConsidered string          `json:"holidays_considered,omitempty"`
	Metadata           ContentMetadata `json:"metadata,omitempty"`
}

// ContentMetadata echoes the content-generator knobs back to the caller.
type ContentMetadata struct {
	ContentType     string `json:"content_type,omitempty"`
	Audience        string `json:"audience,omitempty"`
	Tone            string `json:"tone,omitempty"`
	Length          string `json:"length,omitempty"`
	IncludePractice bool   `json:"include_practice,omitempty"`
}

// UploadSummary is the backend's per-type confirmation of a reference data
// upload. Only the counter matching the upload kind is populated.
type UploadSummary struct {
	Success          bool   `json:"success"`
	CoursesLoaded    int    `json:"courses_loaded,omitempty"`
	StatesLoaded     int    `json:"states_loaded,omitempty"`
	GuidelinesLength int    `json:"guidelines_length,omitempty"`
	Error            string `json:"error,omitempty"`
}

// DocumentList is the /get_documents response.
type DocumentList struct {
	Documents  []string `json:"documents"`
	TotalCount int      `json:"total_count"`
}

// BackendHealth is the /health response.
type BackendHealth struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	CoursesLoaded     int    `json:"courses_loaded"`
	StatesWithHoliday int    `json:"states_with_holidays"`
	GuidelinesLoaded  bool   `json:"guidelines_loaded"`
}

// BatchEmailSummary is the /process/assessment_and_email response.
type BatchEmailSummary struct {
	TotalStudents int            `json:"total_students"`
	AverageScore  float64        `json:"average_score"`
	EmailsSent    int            `json:"emails_sent"`
	EmailResults  []EmailResult  `json:"email_results"`
	WeakQuestions []WeakQuestion `json:"weak_questions"`
}

// EmailResult is one delivery outcome; the backend keys the recipient
// address as "email".
type EmailResult struct {
	Student string `json:"email"`
	Status  string `json:"status"`
}

// WeakQuestion flags a question below the mastery threshold. SuccessRate is
// a percentage on a 0-100 scale, as the backend reports it.
type WeakQuestion struct {
	Question    string  `json:"question"`
	SuccessRate float64 `json:"success_rate"`
}
