package model

const (
	EducationEntity = "Education"
	SchoolEntity    = "School"
	DegreeEntity    = "Degree"
)

type Education struct {
	Base
	Summary string `json:"summary" dynamodbav:"summary"`
}

func (e *Education) EntityName() string { return EducationEntity }

func (e *Education) UniqueKey() []string { return []string{e.Summary} }

func (e *Education) ForeignKeys() map[string]*string { return map[string]*string{} }

func (e *Education) TaggedText() string { return e.Summary }

type School struct {
	Base
	Name        string `json:"name" dynamodbav:"name"`
	EducationID string `json:"educationId" dynamodbav:"educationId"`
}

func (s *School) EntityName() string { return SchoolEntity }

func (s *School) UniqueKey() []string { return []string{s.Name, s.EducationID} }

func (s *School) ForeignKeys() map[string]*string {
	return map[string]*string{"educationId": &s.EducationID}
}

func (s *School) TaggedText() string { return s.Name }

type Degree struct {
	Base
	Major     string `json:"major" dynamodbav:"major"`
	StartYear string `json:"startYear" dynamodbav:"startYear"`
	EndYear   string `json:"endYear" dynamodbav:"endYear"`
	SchoolID  string `json:"schoolId" dynamodbav:"schoolId"`
}

func (d *Degree) EntityName() string { return DegreeEntity }

func (d *Degree) UniqueKey() []string { return []string{d.Major, d.SchoolID} }

func (d *Degree) ForeignKeys() map[string]*string {
	return map[string]*string{"schoolId": &d.SchoolID}
}

func (d *Degree) TaggedText() string { return d.Major }
