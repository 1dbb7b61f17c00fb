package seed

import (
	"os"

	"github.com/devrev/crmstore/internal/errors"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document the loader consumes. IDs are decimal strings
// so values beyond 64 bits survive decoding.
type Fixture struct {
	Companies    []CompanyRecord     `yaml:"companies"`
	Persons      []PersonRecord      `yaml:"persons"`
	Deals        []DealRecord        `yaml:"deals"`
	Tasks        []TaskRecord        `yaml:"tasks"`
	Interactions []InteractionRecord `yaml:"interactions"`
}

type CompanyRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type PersonRecord struct {
	ID      string `yaml:"id"`
	Kind    string `yaml:"kind"`
	Name    string `yaml:"name"`
	Surname string `yaml:"surname"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`

	CompanyID  string `yaml:"company_id"`
	LeadSource string `yaml:"lead_source"`
	OwnerID    string `yaml:"owner_id"`
	ManagerID  string `yaml:"manager_id"`
	Department string `yaml:"department"`
	Position   string `yaml:"position"`
}

type PaymentRecord struct {
	Amount string `yaml:"amount"`
	Date   string `yaml:"date"`
	Note   string `yaml:"note"`
}

type DocumentRecord struct {
	Name string `yaml:"name"`
	URI  string `yaml:"uri"`
}

type DealRecord struct {
	ID             string           `yaml:"id"`
	Title          string           `yaml:"title"`
	Status         string           `yaml:"status"`
	OtherStatus    string           `yaml:"other_status"`
	Priority       string           `yaml:"priority"`
	ManagerID      string           `yaml:"manager_id"`
	ClientID       string           `yaml:"client_id"`
	ContractNumber string           `yaml:"contract_number"`
	TotalAmount    string           `yaml:"total_amount"`
	CreationDate   string           `yaml:"creation_date"`
	ApprovalDate   string           `yaml:"approval_date"`
	Deadline       string           `yaml:"deadline"`
	Tags           []string         `yaml:"tags"`
	Payments       []PaymentRecord  `yaml:"payments"`
	Documents      []DocumentRecord `yaml:"documents"`
}

type TaskRecord struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Status       string   `yaml:"status"`
	OtherStatus  string   `yaml:"other_status"`
	Priority     string   `yaml:"priority"`
	OwnerID      string   `yaml:"owner_id"`
	DealID       string   `yaml:"deal_id"`
	CreationDate string   `yaml:"creation_date"`
	StartDate    string   `yaml:"start_date"`
	Deadline     string   `yaml:"deadline"`
	EndDate      string   `yaml:"end_date"`
	Tags         []string `yaml:"tags"`
}

type InteractionRecord struct {
	ID             string   `yaml:"id"`
	Subject        string   `yaml:"subject"`
	Type           string   `yaml:"type"`
	OtherType      string   `yaml:"other_type"`
	ParticipantIDs []string `yaml:"participant_ids"`
	DealID         string   `yaml:"deal_id"`
	CreationDate   string   `yaml:"creation_date"`
	StartDate      string   `yaml:"start_date"`
	EndDate        string   `yaml:"end_date"`
	Notes          string   `yaml:"notes"`
	Tags           []string `yaml:"tags"`
}

// Parse decodes a fixture document
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.SeedFailed("failed to parse fixture", err)
	}
	return &f, nil
}

// ReadFile reads and decodes a fixture file
func ReadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SeedFailed("failed to read fixture file", err).WithDetail("path", path)
	}
	return Parse(data)
}
