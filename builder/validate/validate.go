// checks extracted posts against the frontmatter schema
package validate

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Fields in report order.
var fieldOrder = []string{"id", "title", "date", "tags", "excerpt", "readTime", "published", "content"}

// Options selects the strictness of validation.
type Options struct {
	RequireID         bool
	RejectFutureDates bool
	Now               time.Time
}

var (
	errNotString    = validation.NewError("folio.validate.not_string", "must be a string")
	errBlank        = validation.NewError("folio.validate.blank", "must be a non-empty string")
	errDateShape    = validation.NewError("folio.validate.date_shape", "must match YYYY-MM-DD")
	errDateInvalid  = validation.NewError("folio.validate.date_invalid", "is not a valid calendar date")
	errDateFuture   = validation.NewError("folio.validate.date_future", "is in the future")
	errNotList      = validation.NewError("folio.validate.not_list", "must be a list")
	errNotBool      = validation.NewError("folio.validate.not_bool", "must be a boolean")
	errMissingKey   = validation.NewError("folio.validate.missing", "is required")
	errContentBlank = validation.NewError("folio.validate.content_blank", "must be a non-empty string")
)

// Post checks doc's raw frontmatter and the extracted post. Every failing
// field is reported; an empty result means the post is valid.
func Post(file string, doc models.Document, post models.Post, opts Options) []models.ValidationError {
	fm := doc.Frontmatter
	if fm == nil {
		fm = models.Frontmatter{}
	}

	idKey := validation.Key("id", validation.By(nonEmptyString))
	if !opts.RequireID {
		idKey = idKey.Optional()
	}

	rules := validation.Map(
		idKey,
		validation.Key("title", validation.By(nonEmptyString)),
		validation.Key("date", validation.By(dateRule(opts))).Optional(),
		validation.Key("tags", validation.By(stringList)).Optional(),
		validation.Key("excerpt", validation.By(isString)).Optional(),
		validation.Key("readTime", validation.By(isString)).Optional(),
		validation.Key("published", validation.By(isBool)).Optional(),
	).AllowExtraKeys()

	failures := map[string]error{}
	if err := validation.Validate(map[string]interface{}(fm), rules); err != nil {
		var errs validation.Errors
		if !errors.As(err, &errs) {
			return []models.ValidationError{{File: file, Field: "frontmatter", Message: err.Error()}}
		}
		for k, e := range errs {
			failures[k] = e
		}
	}

	if _, ok := fm["id"]; !ok && !opts.RequireID && post.ID == "" {
		failures["id"] = validation.NewError("folio.validate.id_derive", "could not derive an id from the file name")
	}
	if strings.TrimSpace(post.Content) == "" {
		failures["content"] = errContentBlank
	}

	var out []models.ValidationError
	for _, field := range fieldOrder {
		if e, ok := failures[field]; ok {
			out = append(out, models.ValidationError{File: file, Field: field, Message: message(field, e)})
		}
	}
	return out
}

// IsFutureDate reports whether a YYYY-MM-DD date lies after now's calendar day.
func IsFutureDate(date string, now time.Time) bool {
	d, err := time.Parse(utils.DateLayout, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(utils.DateLayout, utils.FormatDate(now))
	return d.After(today)
}

func message(field string, err error) string {
	msg := err.Error()
	if msg == "required key is missing" {
		msg = errMissingKey.Error()
	}
	return field + " " + msg
}

func nonEmptyString(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		if value == nil {
			return errMissingKey
		}
		return errNotString
	}
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

func isString(value interface{}) error {
	if _, ok := value.(string); !ok {
		return errNotString
	}
	return nil
}

func isBool(value interface{}) error {
	if _, ok := value.(bool); !ok {
		return errNotBool
	}
	return nil
}

func stringList(value interface{}) error {
	list, ok := value.([]interface{})
	if !ok {
		return errNotList
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return validation.NewError("folio.validate.tag_type", "must contain only strings")
		}
	}
	return nil
}

func dateRule(opts Options) func(interface{}) error {
	return func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case time.Time:
			s = utils.FormatDate(v)
		default:
			return errNotString
		}
		if !datePattern.MatchString(s) {
			return errDateShape
		}
		if _, err := time.Parse(utils.DateLayout, s); err != nil {
			return errDateInvalid
		}
		if opts.RejectFutureDates && IsFutureDate(s, opts.Now) {
			return errDateFuture
		}
		return nil
	}
}
