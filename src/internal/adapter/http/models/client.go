package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type ClientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
}

func (r ClientRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "firstName is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "lastName is required")
	}

	if strings.TrimSpace(r.BirthDate) == "" {
		errs = append(errs, "birthDate is required")
	} else if birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(r.BirthDate)); err != nil {
		errs = append(errs, "birthDate must be in YYYY-MM-DD format")
	} else if !birthDate.Before(time.Now()) {
		errs = append(errs, "birthDate must be in the past")
	}

	gender := strings.TrimSpace(r.Gender)
	if gender == "" {
		errs = append(errs, "gender is required")
	} else if gender != "M" && gender != "F" && gender != "Other" {
		errs = append(errs, "gender must be M, F or Other")
	}

	if strings.TrimSpace(r.Address) == "" {
		errs = append(errs, "address is required")
	}

	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		errs = append(errs, "phone is required")
	} else if !phonePattern.MatchString(phone) {
		errs = append(errs, "phone format is invalid")
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "email format is invalid")
	}

	if strings.TrimSpace(r.Nationality) == "" {
		errs = append(errs, "nationality is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (r ClientRequest) BirthDateValue() time.Time {
	birthDate, _ := time.Parse("2006-01-02", strings.TrimSpace(r.BirthDate))
	return birthDate
}

type ClientResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	CreatedAt   string `json:"createdAt"`
}

type ClientWithAccountsResponse struct {
	Client   ClientResponse    `json:"client"`
	Accounts []AccountResponse `json:"accounts"`
}

type ClientCountResponse struct {
	Count int64 `json:"count"`
}
