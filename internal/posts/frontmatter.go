package posts

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/go-playground/validator/v10"
)

// dateLayouts are tried in order for pubDate and updatedDate.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*(/[a-z0-9][a-z0-9_-]*)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("fm")
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

type schema struct {
	Slug      string `fm:"slug" validate:"required,slug,ne=posts"`
	Title     string `fm:"title" validate:"required,max=200"`
	HeroImage string `fm:"heroImage" validate:"omitempty,max=2048"`
}

// Parse reads the front-matter of the document stored under key and returns
// the Post it describes together with the unrendered markdown body.
func Parse(key, slug string, src []byte) (*Post, []byte, error) {
	var raw map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(src), &raw)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, frontmatter.ErrNotFound) {
			reason = "missing"
		}
		return nil, nil, &ValidationError{Key: key, Fields: map[string]string{"front-matter": reason}}
	}

	fields := make(map[string]string)
	post := &Post{
		Slug:        slug,
		Key:         key,
		Title:       stringField(raw, "title", true, fields),
		Description: stringField(raw, "description", true, fields),
		HeroImage:   stringField(raw, "heroImage", false, fields),
	}

	if t, ok := dateField(raw, "pubDate", true, fields); ok {
		post.PubDate = t
	}
	if t, ok := dateField(raw, "updatedDate", false, fields); ok {
		post.UpdatedDate = &t
		if !post.PubDate.IsZero() && t.Before(post.PubDate) {
			fields["updatedDate"] = "must not be before pubDate"
		}
	}

	err = validate.Struct(schema{Slug: post.Slug, Title: post.Title, HeroImage: post.HeroImage})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = describe(fe)
			}
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("%s: validate: %w", key, err)
	}

	if len(fields) > 0 {
		return nil, nil, &ValidationError{Key: key, Fields: fields}
	}
	return post, body, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "slug":
		return fmt.Sprintf("%q is not a valid slug", fe.Value())
	case "ne":
		return fmt.Sprintf("%q is reserved", fe.Value())
	case "max":
		return "longer than " + fe.Param() + " characters"
	}
	return "failed " + fe.Tag()
}

func stringField(raw map[string]any, key string, required bool, fields map[string]string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		if required {
			fields[key] = "required"
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		fields[key] = fmt.Sprintf("must be a string, got %T", v)
		return ""
	}
	return s
}

func dateField(raw map[string]any, key string, required bool, fields map[string]string) (time.Time, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		if required {
			fields[key] = "required"
		}
		return time.Time{}, false
	}

	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		t, err := ParseDate(d)
		if err != nil {
			fields[key] = err.Error()
			return time.Time{}, false
		}
		return t, true
	default:
		fields[key] = fmt.Sprintf("must be a date, got %T", v)
		return time.Time{}, false
	}
}

// ParseDate accepts the date formats allowed in front-matter. Values without
// a zone are interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a recognised date", s)
}
