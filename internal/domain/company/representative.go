package company

import (
	"strings"

	"internhub/internal/common"
)

// MaxListings caps the opportunities a single representative may own.
const MaxListings = 5

// Representative is a company-side reviewer account. Accounts start
// unapproved and may not post listings until career center staff approve them.
type Representative struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Approved    bool   `json:"approved"`
}

func NewRepresentative(id, name, email, companyName, department, position string) (*Representative, error) {
	id = strings.TrimSpace(id)
	companyName = strings.TrimSpace(companyName)
	if id == "" {
		return nil, common.NewValidationError("representative id is required", nil)
	}
	if companyName == "" {
		return nil, common.NewValidationError("company name is required", nil)
	}
	return &Representative{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		CompanyName: companyName,
		Department:  strings.TrimSpace(department),
		Position:    strings.TrimSpace(position),
	}, nil
}

type Repository interface {
	Add(rep *Representative)
	GetByID(id string) (*Representative, error)
	List() []*Representative
}
