package domain

// Feature identifies one of the generation workflows the backend exposes.
type Feature string

const (
	FeatureAssessment Feature = "assessment"
	FeatureLessonPlan Feature = "lesson_plan"
	FeatureContent    Feature = "content"
)

// EndpointPath returns the creation endpoint for the feature.
func (f Feature) EndpointPath() string {
	return "/create/" + string(f)
}

// OutputFormat selects what the backend should produce. The wire values
// match the backend API; FormatInteractive asks for an inline JSON result,
// the other two for a downloadable document.
type OutputFormat string

const (
	FormatInteractive OutputFormat = "json"
	FormatWord        OutputFormat = "docx"
	FormatPDF         OutputFormat = "pdf"
)

// Languages the backend can translate into. English skips translation.
var Languages = []string{
	"English", "Bengali", "Hindi", "Marathi", "Tamil",
	"Telugu", "Gujarati", "Kannada", "Malayalam", "Odia", "Punjabi",
}

// States accepted by the lesson planner for holiday lookups.
var States = []string{
	"Corporate", "West Bengal", "Maharashtra", "Gujarat", "Tamil Nadu",
	"Karnataka", "Kerala", "Andhra Pradesh", "Telangana", "Odisha",
	"Punjab", "Haryana", "Rajasthan", "Uttar Pradesh", "Madhya Pradesh",
	"Delhi", "Assam",
}

// GenerationRequest is the body of /create/* calls. Feature-specific fields
// are omitted from the payload when empty; the backend applies its own
// defaults for them.
type GenerationRequest struct {
	Feature Feature `json:"-"`

	Topic             string       `json:"query" validate:"required"`
	Language          string       `json:"language" validate:"required"`
	OutputFormat      OutputFormat `json:"output_format" validate:"oneof=json docx pdf"`
	SelectedDocuments []string     `json:"selected_documents" validate:"min=1"`

	// Assessment only.
	Requirements string `json:"requirements,omitempty"`

	// Lesson plan only.
	CourseName string `json:"course_name,omitempty"`
	State      string `json:"state,omitempty"`
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD

	// Content only.
	ContentType     string `json:"content_type,omitempty"`
	Audience        string `json:"audience,omitempty"`
	Tone            string `json:"tone,omitempty"`
	Length          string `json:"length,omitempty"`
	IncludePractice bool   `json:"include_practice,omitempty"`
}
