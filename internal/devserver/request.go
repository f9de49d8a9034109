package devserver

import (
	"encoding/json"
	"errors"
	"html"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// RegistrationRequest is the body of POST /register.
type RegistrationRequest struct {
	FirstName    string `json:"firstName"    validate:"required"`
	Surname      string `json:"surname"      validate:"required"`
	Email        string `json:"email"        validate:"required,email"`
	TournamentID *int64 `json:"tournamentId" validate:"required"`
}

// TournamentRequest is the body of the create and edit endpoints.
type TournamentRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date"        validate:"required,datetime=2006-01-02"`
	Time        string `json:"time"        validate:"required,datetime=15:04"`
	Location    string `json:"location"    validate:"required"`
	MaxEntrants *int   `json:"maxEntrants" validate:"required,gt=0"`
}

// messages maps Struct.Field:tag to the text the service reports.
var messages = map[string]string{
	"FirstName:required":    "First name is required",
	"Surname:required":      "Surname is required",
	"Email:required":        "Email is required",
	"Email:email":           "Please enter a valid email address",
	"TournamentID:required": "Please select a tournament",
	"Name:required":         "Tournament name is required",
	"Description:required":  "Description is required",
	"Date:required":         "Date is required",
	"Date:datetime":         "Date must be in YYYY-MM-DD format",
	"Time:required":         "Time is required",
	"Time:datetime":         "Time must be in HH:MM format",
	"Location:required":     "Location is required",
	"MaxEntrants:required":  "Maximum entrants is required",
	"MaxEntrants:gt":        "Maximum entrants must be positive",
}

// errMalformed is reported when the body is not the expected JSON shape.
var errMalformed = errors.New("Malformed request body")

// checker decodes, sanitises, and validates request bodies.
type checker struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

func newChecker() *checker {
	return &checker{validate: validator.New(), policy: bluemonday.StrictPolicy()}
}

// decode reads one JSON object from r into dst.
func (c *checker) decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r, 64<<10))
	if err := dec.Decode(dst); err != nil {
		return errMalformed
	}
	return nil
}

// clean strips markup and surrounding space from every free-text field.
// Entities the policy escapes are decoded again since templates escape on
// output.
func (c *checker) clean(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(*f)))
	}
}

// check returns the first rule violation as a user-facing error.
func (c *checker) check(v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if msg, ok := messages[fe.Field()+":"+fe.Tag()]; ok {
		return errors.New(msg)
	}
	return errors.New(fe.Field() + " is invalid")
}

func (c *checker) registration(r io.Reader) (RegistrationRequest, error) {
	var req RegistrationRequest
	if err := c.decode(r, &req); err != nil {
		return req, err
	}
	c.clean(&req.FirstName, &req.Surname, &req.Email)
	return req, c.check(&req)
}

func (c *checker) tournament(r io.Reader) (TournamentRequest, error) {
	var req TournamentRequest
	if err := c.decode(r, &req); err != nil {
		return req, err
	}
	c.clean(&req.Name, &req.Description, &req.Location, &req.Date, &req.Time)
	return req, c.check(&req)
}

func (t TournamentRequest) toTournament() Tournament {
	return Tournament{
		Name:        t.Name,
		Description: t.Description,
		Date:        t.Date,
		Time:        t.Time,
		Location:    t.Location,
		MaxEntrants: *t.MaxEntrants,
	}
}
