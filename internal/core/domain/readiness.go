package domain

// UploadKind names one of the independent reference-data uploads.
type UploadKind string

const (
	UploadCourses    UploadKind = "courses"
	UploadHolidays   UploadKind = "holidays"
	UploadGuidelines UploadKind = "guidelines"
)

// EndpointPath returns the upload endpoint for the kind.
func (k UploadKind) EndpointPath() string {
	switch k {
	case UploadCourses:
		return "/upload/course_data"
	case UploadHolidays:
		return "/upload/holidays"
	case UploadGuidelines:
		return "/upload/guidelines"
	}
	return ""
}

// OperationState is the lifecycle of a single asynchronous action.
type OperationState string

const (
	OperationIdle     OperationState = "idle"
	OperationInFlight OperationState = "in_flight"
	OperationSuccess  OperationState = "success"
	OperationFailure  OperationState = "failure"
)

// Readiness reports which reference datasets have been uploaded successfully
// at least once in this process, plus the backend document count. The
// booleans only ever move false to true.
type Readiness struct {
	Courses       bool
	Holidays      bool
	Guidelines    bool
	DocumentCount int
}
