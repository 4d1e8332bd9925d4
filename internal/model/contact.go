package model

const (
	ContactInformationEntity = "ContactInformation"
	ReferenceEntity          = "Reference"
)

type ContactInformation struct {
	Base
	Name  string `json:"name" dynamodbav:"name"`
	Email string `json:"email" dynamodbav:"email"`
	Phone string `json:"phone" dynamodbav:"phone"`
}

func (c *ContactInformation) EntityName() string { return ContactInformationEntity }

func (c *ContactInformation) UniqueKey() []string { return []string{c.Email} }

func (c *ContactInformation) ForeignKeys() map[string]*string { return map[string]*string{} }

func (c *ContactInformation) TaggedText() string { return c.Name }

type Reference struct {
	Base
	Name                 string `json:"name" dynamodbav:"name"`
	Phone                string `json:"phone" dynamodbav:"phone"`
	Email                string `json:"email" dynamodbav:"email"`
	ContactInformationID string `json:"contactInformationId" dynamodbav:"contactInformationId"`
}

func (r *Reference) EntityName() string { return ReferenceEntity }

func (r *Reference) UniqueKey() []string { return []string{r.Email, r.ContactInformationID} }

func (r *Reference) ForeignKeys() map[string]*string {
	return map[string]*string{"contactInformationId": &r.ContactInformationID}
}

func (r *Reference) TaggedText() string { return r.Name }
