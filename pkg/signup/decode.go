package signup

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-signupform/pkg/model"
)

// Signup is the typed view of a submitted form.
type Signup struct {
	Email     string   `json:"email" mapstructure:"email"`
	Password  string   `json:"-" mapstructure:"password"`
	Colour    string   `json:"colour" mapstructure:"colour"`
	Animal    []string `json:"animal" mapstructure:"animal"`
	TigerType string   `json:"tiger_type,omitempty" mapstructure:"tiger_type"`
}

// HasTiger reports whether "tiger" was selected.
func (s Signup) HasTiger() bool {
	for _, animal := range s.Animal {
		if animal == "tiger" {
			return true
		}
	}
	return false
}

// Decode converts loosely typed values into a Signup. Unknown keys are
// ignored; a tiger type kept from an earlier selection is dropped when tiger
// is no longer selected.
func Decode(values model.Values) (Signup, error) {
	var out Signup
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Signup{}, fmt.Errorf("signup: build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(values.Clone())); err != nil {
		return Signup{}, fmt.Errorf("signup: decode values: %w", err)
	}
	if out.Animal == nil {
		out.Animal = []string{}
	}
	if !out.HasTiger() {
		out.TigerType = ""
	}
	return out, nil
}
