package model

const (
	ExperienceEntity = "Experience"
	PositionEntity   = "Position"
)

type Experience struct {
	Base
	Title string `json:"title" dynamodbav:"title"`
}

func (e *Experience) EntityName() string { return ExperienceEntity }

func (e *Experience) UniqueKey() []string { return []string{e.Title} }

func (e *Experience) ForeignKeys() map[string]*string { return map[string]*string{} }

func (e *Experience) TaggedText() string { return e.Title }

type Position struct {
	Base
	Title        string `json:"title" dynamodbav:"title"`
	Company      string `json:"company" dynamodbav:"company"`
	StartDate    string `json:"startDate" dynamodbav:"startDate"`
	EndDate      string `json:"endDate" dynamodbav:"endDate"`
	ExperienceID string `json:"experienceId" dynamodbav:"experienceId"`
}

func (p *Position) EntityName() string { return PositionEntity }

func (p *Position) UniqueKey() []string { return []string{p.Title, p.Company, p.ExperienceID} }

func (p *Position) ForeignKeys() map[string]*string {
	return map[string]*string{"experienceId": &p.ExperienceID}
}

func (p *Position) TaggedText() string { return p.Company }
