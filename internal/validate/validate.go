// Package validate holds the per-endpoint request validators. Each validator
// is a pure function from raw input to either normalized values or a list of
// field-level errors. Rules are declared as ordered predicate+message pairs
// per field and every rule is evaluated, so all violations for all fields
// surface in a single response.
package validate

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type rule struct {
	ok      func(string) bool
	message string
}

func eval(field, value string, rules []rule) []FieldError {
	var errs []FieldError
	for _, r := range rules {
		if !r.ok(value) {
			errs = append(errs, FieldError{Field: field, Message: r.message})
		}
	}
	return errs
}

var (
	usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`\d`)
)

var usernameRules = []rule{
	{func(s string) bool { return len(s) >= 3 && len(s) <= 30 }, "Username must be between 3 and 30 characters"},
	{usernameCharset.MatchString, "Username can only contain letters, numbers, and underscores"},
}

var emailRules = []rule{
	{isEmail, "Please provide a valid email address"},
}

var passwordRules = []rule{
	{func(s string) bool { return len(s) >= 6 }, "Password must be at least 6 characters long"},
	{func(s string) bool { return hasLetter.MatchString(s) && hasDigit.MatchString(s) }, "Password must contain at least one letter and one number"},
}

func isEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// NormalizeEmail folds an email address to its stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegistrationInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Registration(in RegistrationInput) (RegistrationInput, []FieldError) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)

	var errs []FieldError
	errs = append(errs, eval("username", in.Username, usernameRules)...)
	errs = append(errs, eval("email", in.Email, emailRules)...)
	errs = append(errs, eval("password", in.Password, passwordRules)...)
	return in, errs
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var loginPasswordRules = []rule{
	{func(s string) bool { return s != "" }, "Password is required"},
}

func Login(in LoginInput) (LoginInput, []FieldError) {
	in.Email = NormalizeEmail(in.Email)

	var errs []FieldError
	errs = append(errs, eval("email", in.Email, emailRules)...)
	errs = append(errs, eval("password", in.Password, loginPasswordRules)...)
	return in, errs
}

type StandupInput struct {
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

var standupTextRules = map[string][]rule{
	"yesterday": {
		{func(s string) bool { return s != "" }, "Yesterday field is required"},
		{func(s string) bool { return len(s) <= 1000 }, "Yesterday field cannot exceed 1000 characters"},
	},
	"today": {
		{func(s string) bool { return s != "" }, "Today field is required"},
		{func(s string) bool { return len(s) <= 1000 }, "Today field cannot exceed 1000 characters"},
	},
	"blockers": {
		{func(s string) bool { return len(s) <= 500 }, "Blockers field cannot exceed 500 characters"},
	},
}

func Standup(in StandupInput) (StandupInput, []FieldError) {
	in.Yesterday = strings.TrimSpace(in.Yesterday)
	in.Today = strings.TrimSpace(in.Today)
	in.Blockers = strings.TrimSpace(in.Blockers)

	var errs []FieldError
	errs = append(errs, eval("yesterday", in.Yesterday, standupTextRules["yesterday"])...)
	errs = append(errs, eval("today", in.Today, standupTextRules["today"])...)
	errs = append(errs, eval("blockers", in.Blockers, standupTextRules["blockers"])...)
	return in, errs
}

const dateFormatMessage = "Date must be in ISO 8601 format (YYYY-MM-DD)"

// TeamQuery validates the optional date query parameter. The zero time is
// returned when the parameter is absent; callers default it to today.
func TeamQuery(date string) (time.Time, []FieldError) {
	if date == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, []FieldError{{Field: "date", Message: dateFormatMessage}}
	}
	return parsed, nil
}

// DateParam validates the required date path parameter.
func DateParam(date string) (time.Time, []FieldError) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, []FieldError{{Field: "date", Message: dateFormatMessage}}
	}
	return parsed, nil
}

type HistoryParams struct {
	Page  int
	Limit int
	Start *time.Time
	End   *time.Time
}

const (
	defaultHistoryPage  = 1
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// HistoryQuery validates pagination and date-range parameters. All four
// fields are checked independently; the end-after-start rule only fires when
// both bounds parsed cleanly.
func HistoryQuery(page, limit, startDate, endDate string) (HistoryParams, []FieldError) {
	params := HistoryParams{Page: defaultHistoryPage, Limit: defaultHistoryLimit}
	var errs []FieldError

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			errs = append(errs, FieldError{Field: "page", Message: "Page must be a positive integer"})
		} else {
			params.Page = n
		}
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxHistoryLimit {
			errs = append(errs, FieldError{Field: "limit", Message: "Limit must be between 1 and 50"})
		} else {
			params.Limit = n
		}
	}
	if startDate != "" {
		t, err := time.Parse(dateLayout, startDate)
		if err != nil {
			errs = append(errs, FieldError{Field: "startDate", Message: "Start date must be in ISO 8601 format (YYYY-MM-DD)"})
		} else {
			params.Start = &t
		}
	}
	if endDate != "" {
		t, err := time.Parse(dateLayout, endDate)
		if err != nil {
			errs = append(errs, FieldError{Field: "endDate", Message: "End date must be in ISO 8601 format (YYYY-MM-DD)"})
		} else {
			params.End = &t
		}
	}
	if params.Start != nil && params.End != nil && !params.End.After(*params.Start) {
		errs = append(errs, FieldError{Field: "endDate", Message: "End date must be after start date"})
	}
	return params, errs
}
