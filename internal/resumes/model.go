package resumes

import "time"

// ResumeRecord is the persisted resume row. Identity fields are best-effort
// extracted from the text; a record is keyed by email OR phone OR LinkedIn
// when any of those could be extracted.
type ResumeRecord struct {
	ID string `json:"id"`

	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	LinkedIn        string   `json:"linkedin,omitempty"`
	Location        string   `json:"location,omitempty"`
	Role            string   `json:"role,omitempty"`
	ExperienceYears string   `json:"experienceYears,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Education       string   `json:"education,omitempty"`

	ResumeText    string `json:"resumeText"`
	ExtractedData string `json:"extractedData,omitempty"`

	ATSScore        *int   `json:"atsScore,omitempty"`
	ATSBreakdown    string `json:"atsBreakdown,omitempty"`
	AnalysisResults string `json:"analysisResults,omitempty"`

	FileType     string `json:"fileType,omitempty"`
	FileSize     int64  `json:"fileSize,omitempty"`
	UploadSource string `json:"uploadSource,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FileInfo carries upload metadata into the persistence layer.
type FileInfo struct {
	FileType     string
	FileSize     int64
	UploadSource string
}

// HasIdentity reports whether any deduplication key was extracted.
func (r ResumeRecord) HasIdentity() bool {
	return r.Email != "" || r.Phone != "" || r.LinkedIn != ""
}

// Stats is the aggregate snapshot served to the admin dashboard.
type Stats struct {
	TotalResumes  int        `json:"totalResumes"`
	AverageScore  float64    `json:"averageScore"`
	ScoredResumes int        `json:"scoredResumes"`
	LastUploadAt  *time.Time `json:"lastUploadAt,omitempty"`
}
