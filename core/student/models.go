package student

import (
	"strings"
	"time"

	"github.com/edusoma/portal/core"
)

// DefaultPassword is issued to every newly registered student.
const DefaultPassword = "student123"

const notProvided = "Not provided"

type (
	// NewStudent is the flat registration form submitted by the portal UI.
	NewStudent struct {
		FirstName       string `json:"first_name" validate:"required"`
		LastName        string `json:"last_name" validate:"required"`
		Email           string `json:"email" validate:"omitempty,email"`
		PhoneNumber     string `json:"phone_number"`
		DateOfBirth     string `json:"date_of_birth"`
		Gender          string `json:"gender"`
		FatherName      string `json:"father_name"`
		MotherName      string `json:"mother_name"`
		GuardianName    string `json:"guardian_name"`
		GuardianType    string `json:"guardian_type"`
		ParentPhone     string `json:"parent_phone"`
		ParentEmail     string `json:"parent_email" validate:"omitempty,email"`
		CurrentClass    string `json:"current_class"`
		AdmissionNumber string `json:"admission_number"`
		AdmissionDate   string `json:"admission_date"`
		CurrentAddress  string `json:"current_address"`
	}

	// backendStudent is the school backend's expected shape. Optional fields
	// are pointers so that absent form values serialize as JSON null.
	backendStudent struct {
		FirstName   string  `json:"first_name"`
		LastName    string  `json:"last_name"`
		Email       *string `json:"email"`
		PhoneNumber *string `json:"phone_number"`
		DateOfBirth *string `json:"date_of_birth"`
		Gender      *string `json:"gender"`

		FatherName    *string `json:"father_name"`
		MotherName    *string `json:"mother_name"`
		GuardianName  *string `json:"guardian_name"`
		FatherPhone   *string `json:"father_phone"`
		MotherPhone   *string `json:"mother_phone"`
		GuardianPhone *string `json:"guardian_phone"`
		FatherEmail   *string `json:"father_email"`
		MotherEmail   *string `json:"mother_email"`
		GuardianEmail *string `json:"guardian_email"`

		CurrentClass  *string `json:"current_class"`
		StudentID     *string `json:"student_id"`
		AdmissionDate string  `json:"admission_date"`

		AddressLine1 string `json:"address_line_1"`
		City         string `json:"city"`
		County       string `json:"county"`
		PostalCode   string `json:"postal_code"`

		EmergencyContactName         string `json:"emergency_contact_name"`
		EmergencyContactPhone        string `json:"emergency_contact_phone"`
		EmergencyContactRelationship string `json:"emergency_contact_relationship"`

		Nationality string `json:"nationality"`
		Country     string `json:"country"`
	}
)

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)
	return core.Validate.Struct(ns)
}

// toBackend maps the flat form onto the school backend's field names,
// applying its defaulting rules: gender initial, guardian contact fan-out,
// address placeholders and emergency-contact fallbacks.
func (ns NewStudent) toBackend(now time.Time) backendStudent {
	admissionDate := ns.AdmissionDate
	if admissionDate == "" {
		admissionDate = now.Format("2006-01-02")
	}

	emergencyName := firstNonEmpty(ns.FatherName, ns.MotherName, ns.GuardianName, notProvided)
	emergencyRel := "Guardian"
	if ns.GuardianType == "parents" {
		emergencyRel = "Parent"
	}

	return backendStudent{
		FirstName:   ns.FirstName,
		LastName:    ns.LastName,
		Email:       nullable(ns.Email),
		PhoneNumber: nullable(ns.PhoneNumber),
		DateOfBirth: nullable(ns.DateOfBirth),
		Gender:      genderInitial(ns.Gender),

		FatherName:    nullable(ns.FatherName),
		MotherName:    nullable(ns.MotherName),
		GuardianName:  nullable(ns.GuardianName),
		FatherPhone:   nullable(ns.ParentPhone),
		MotherPhone:   nullable(ns.ParentPhone),
		GuardianPhone: nullable(ns.ParentPhone),
		FatherEmail:   nullable(ns.ParentEmail),
		MotherEmail:   nullable(ns.ParentEmail),
		GuardianEmail: nullable(ns.ParentEmail),

		CurrentClass:  nullable(ns.CurrentClass),
		StudentID:     nullable(ns.AdmissionNumber),
		AdmissionDate: admissionDate,

		AddressLine1: firstNonEmpty(ns.CurrentAddress, notProvided),
		City:         notProvided,
		County:       notProvided,
		PostalCode:   notProvided,

		EmergencyContactName:         emergencyName,
		EmergencyContactPhone:        firstNonEmpty(ns.ParentPhone, notProvided),
		EmergencyContactRelationship: emergencyRel,

		Nationality: "British",
		Country:     "United Kingdom",
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// genderInitial converts a spelled-out gender onto the backend's M/F/O codes.
func genderInitial(gender string) *string {
	gender = strings.ToUpper(strings.TrimSpace(gender))
	if gender == "" {
		return nil
	}
	initial := gender[:1]
	return &initial
}
