package model

const (
	ResumeEntity  = "Resume"
	SummaryEntity = "Summary"
	SkillEntity   = "Skill"
	TodoEntity    = "Todo"
)

type Resume struct {
	Base
	Title                string `json:"title" dynamodbav:"title"`
	SummaryID            string `json:"summaryId" dynamodbav:"summaryId"`
	ContactInformationID string `json:"contactInformationId" dynamodbav:"contactInformationId"`
	EducationID          string `json:"educationId" dynamodbav:"educationId"`
	ExperienceID         string `json:"experienceId" dynamodbav:"experienceId"`
}

func (r *Resume) EntityName() string { return ResumeEntity }

func (r *Resume) UniqueKey() []string { return []string{r.Title} }

func (r *Resume) ForeignKeys() map[string]*string {
	return map[string]*string{
		"summaryId":            &r.SummaryID,
		"contactInformationId": &r.ContactInformationID,
		"educationId":          &r.EducationID,
		"experienceId":         &r.ExperienceID,
	}
}

func (r *Resume) TaggedText() string { return r.Title }

// Summary back-references its Resume. The reference is filled in after the
// Resume exists, so ResumeID is not a write-order dependency.
type Summary struct {
	Base
	Goals       string `json:"goals" dynamodbav:"goals"`
	Persona     string `json:"persona" dynamodbav:"persona"`
	URL         string `json:"url" dynamodbav:"url"`
	Headshot    string `json:"headshot" dynamodbav:"headshot"`
	GptResponse string `json:"gptResponse" dynamodbav:"gptResponse"`
	ResumeID    string `json:"resumeId" dynamodbav:"resumeId"`
}

func (s *Summary) EntityName() string { return SummaryEntity }

func (s *Summary) UniqueKey() []string { return []string{s.Goals, s.Persona} }

func (s *Summary) ForeignKeys() map[string]*string {
	return map[string]*string{"resumeId": &s.ResumeID}
}

func (s *Summary) TaggedText() string { return s.Goals }

type Skill struct {
	Base
	Title    string `json:"title" dynamodbav:"title"`
	Link     string `json:"link" dynamodbav:"link"`
	ResumeID string `json:"resumeId" dynamodbav:"resumeId"`
}

func (s *Skill) EntityName() string { return SkillEntity }

func (s *Skill) UniqueKey() []string { return []string{s.Title, s.ResumeID} }

func (s *Skill) ForeignKeys() map[string]*string {
	return map[string]*string{"resumeId": &s.ResumeID}
}

func (s *Skill) TaggedText() string { return s.Title }

// Todo is a standalone record used to smoke-test connectivity.
type Todo struct {
	Base
	Content string `json:"content" dynamodbav:"content"`
}

func (t *Todo) EntityName() string { return TodoEntity }

func (t *Todo) UniqueKey() []string { return []string{t.Content} }

func (t *Todo) ForeignKeys() map[string]*string { return map[string]*string{} }

func (t *Todo) TaggedText() string { return t.Content }
