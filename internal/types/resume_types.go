package types

// PersonalInfo 候选人身份信息，所有字段缺省为空字符串
type PersonalInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

// EmploymentType 雇佣类型
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

// DatePresent 表示仍在职/在读
const DatePresent = "Present"

// WorkExperience 一段工作经历，按原文出现顺序排列
type WorkExperience struct {
	JobTitle     string         `json:"job_title"`
	Company      string         `json:"company"`
	StartDate    string         `json:"start_date"` // MM/YYYY
	EndDate      string         `json:"end_date"`   // MM/YYYY 或 Present
	Type         EmploymentType `json:"type"`
	Location     string         `json:"location"`
	Description  []string       `json:"description"`
	SkillsGained []string       `json:"skills_gained"`
}

// Education 一段教育经历
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartYear    string `json:"start_year"`
	EndYear      string `json:"end_year"`
	Grade        string `json:"grade"`
}

// Skills 规范化后的技能，Technical 与 Soft 互不相交
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// Project 项目经历
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	ProjectURL  string   `json:"project_url"`
}

// SectionConfidence 各分区的置信度，每项独立计算
type SectionConfidence struct {
	PersonalInfo   float64 `json:"personal_info"`
	Summary        float64 `json:"summary"`
	WorkExperience float64 `json:"work_experience"`
	Education      float64 `json:"education"`
	Skills         float64 `json:"skills"`
	Projects       float64 `json:"projects"`
	Certifications float64 `json:"certifications"`
	Languages      float64 `json:"languages"`
	Interests      float64 `json:"interests"`
}

// ResumeData 结构化简历
type ResumeData struct {
	PersonalInfo   PersonalInfo     `json:"personal_info"`
	Summary        string           `json:"summary"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Skills         Skills           `json:"skills"`
	Projects       []Project        `json:"projects"`
	Certifications []string         `json:"certifications"`
	Languages      []string         `json:"languages"`
	Interests      []string         `json:"interests"`
}

// NewResumeData 返回所有列表均已初始化的空简历，序列化时输出 [] 而不是 null
func NewResumeData() ResumeData {
	return ResumeData{
		WorkExperience: []WorkExperience{},
		Education:      []Education{},
		Skills:         Skills{Technical: []string{}, Soft: []string{}},
		Projects:       []Project{},
		Certifications: []string{},
		Languages:      []string{},
		Interests:      []string{},
	}
}

// AnalysisResult 核心抽取的输出：结构化数据 + 分区置信度 + 综合置信度
type AnalysisResult struct {
	Data              ResumeData
	SectionConfidence SectionConfidence
	Overall           float64
}

// ExtractionDetails 抽取过程的附加信息
type ExtractionDetails struct {
	FileType    string `json:"file_type,omitempty"`
	FileSize    int    `json:"file_size,omitempty"`
	TextLength  int    `json:"text_length,omitempty"`
	CacheHit    bool   `json:"cache_hit"`
	ErrorReason string `json:"error_reason,omitempty"`
}

// ExtractionMetadata 响应元数据
type ExtractionMetadata struct {
	ProcessingTime    float64           `json:"processing_time"` // 秒
	OverallConfidence float64           `json:"overall_confidence"`
	SectionConfidence SectionConfidence `json:"section_confidence"`
	ExtractionDetails ExtractionDetails `json:"extraction_details"`
}

// ResumeResponse 对外返回的解析结果
type ResumeResponse struct {
	SubmissionID string             `json:"submission_id,omitempty"`
	Data         ResumeData         `json:"data"`
	Metadata     ExtractionMetadata `json:"metadata"`
}
