package web

import (
	"strings"

	"github.com/deppfellow/superhero-catalog/internal/client"
	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/deppfellow/superhero-catalog/internal/validation"
	"github.com/go-playground/validator/v10"
)

// heroForm is the create/edit form. Superpowers and images are entered one
// per line.
type heroForm struct {
	Nickname          string `form:"nickname" validate:"required,notblank,max=100"`
	RealName          string `form:"real_name" validate:"required,notblank,max=100"`
	OriginDescription string `form:"origin_description" validate:"required,notblank,max=5000"`
	CatchPhrase       string `form:"catch_phrase" validate:"required,notblank,max=500"`
	Superpowers       string `form:"superpowers"`
	Images            string `form:"images"`
}

var formMessages = map[string]string{
	"nickname":           "Nickname is required",
	"real_name":          "Real name is required",
	"origin_description": "Origin description is required",
	"catch_phrase":       "Catch phrase is required",
}

func formFromHero(hero *model.Superhero) heroForm {
	return heroForm{
		Nickname:          hero.Nickname,
		RealName:          hero.RealName,
		OriginDescription: hero.OriginDescription,
		CatchPhrase:       hero.CatchPhrase,
		Superpowers:       strings.Join(hero.Superpowers, "\n"),
		Images:            strings.Join(hero.Images, "\n"),
	}
}

// validate returns field errors keyed by form field name.
func (f *heroForm) validate() map[string]string {
	errors := map[string]string{}

	if err := validation.Struct(f); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				field := fe.Field()
				if _, seen := errors[field]; seen {
					continue
				}
				switch fe.Tag() {
				case "max":
					errors[field] = "Must not exceed " + fe.Param() + " characters"
				default:
					errors[field] = formMessages[field]
				}
			}
		}
	}

	if len(splitLines(f.Superpowers)) == 0 {
		errors["superpowers"] = "At least one superpower is required"
	}

	return errors
}

func (f *heroForm) input() *client.SuperheroInput {
	return &client.SuperheroInput{
		Nickname:          strings.TrimSpace(f.Nickname),
		RealName:          strings.TrimSpace(f.RealName),
		OriginDescription: strings.TrimSpace(f.OriginDescription),
		Superpowers:       splitLines(f.Superpowers),
		CatchPhrase:       strings.TrimSpace(f.CatchPhrase),
		Images:            splitLines(f.Images),
	}
}

// splitLines trims each line and drops blanks and duplicates.
func splitLines(s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}

// apiFieldErrors maps API field errors ("images[2]") onto form fields.
func apiFieldErrors(apiErr *client.APIError) map[string]string {
	errors := map[string]string{}
	for _, fe := range apiErr.Errors {
		field := fe.Field
		if i := strings.Index(field, "["); i >= 0 {
			field = field[:i]
		}
		if _, seen := errors[field]; !seen {
			errors[field] = fe.Error
		}
	}
	return errors
}
