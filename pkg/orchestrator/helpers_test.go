package orchestrator

import (
	"github.com/goliatone/go-signupform/pkg/form"
	"github.com/goliatone/go-signupform/pkg/model"
)

func signupValues() form.Option {
	return form.WithValues(model.Values{
		"email":    "a@example.com",
		"password": "password123",
		"colour":   "blue",
		"animal":   []string{"bear", "snake"},
	})
}
