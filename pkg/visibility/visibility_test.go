package visibility_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signupform/pkg/model"
	"github.com/goliatone/go-signupform/pkg/visibility"
	"github.com/goliatone/go-signupform/pkg/visibility/expr"
)

func sampleForm() model.FormModel {
	return model.FormModel{Sections: []model.Section{{Fields: []model.Field{
		{Name: "animal", Type: model.FieldTypeArray},
		{Name: "tiger_type", VisibleWhen: `animal has "tiger"`},
		{Name: "broken", VisibleWhen: "animal =="},
	}}}}
}

func TestVisibleWithoutRule(t *testing.T) {
	ok, err := visibility.Visible(nil, model.Field{Name: "x", VisibleWhen: "false"}, nil)
	if err != nil || !ok {
		t.Fatalf("nil evaluator should show field, got %v %v", ok, err)
	}
	ok, err = visibility.Visible(expr.New(), model.Field{Name: "x"}, nil)
	if err != nil || !ok {
		t.Fatalf("field without rule should be visible, got %v %v", ok, err)
	}
}

func TestDerive(t *testing.T) {
	form := sampleForm()

	visible, failures := visibility.Derive(expr.New(), form, model.Values{"animal": []string{"bear"}})
	want := map[string]bool{"animal": true, "tiger_type": false, "broken": true}
	if diff := cmp.Diff(want, visible); diff != "" {
		t.Fatalf("visibility mismatch (-want +got):\n%s", diff)
	}
	if _, ok := failures["broken"]; !ok || len(failures) != 1 {
		t.Fatalf("expected a single failure for broken, got %v", failures)
	}

	visible, _ = visibility.Derive(expr.New(), form, model.Values{"animal": []string{"bear", "tiger"}})
	if !visible["tiger_type"] {
		t.Fatalf("expected tiger_type visible once tiger is selected")
	}
}

func TestEvaluatorFunc(t *testing.T) {
	boom := errors.New("boom")
	eval := visibility.EvaluatorFunc(func(fieldPath, rule string, ctx visibility.Context) (bool, error) {
		if fieldPath != "tiger_type" || rule != "r" {
			t.Fatalf("unexpected call %q %q", fieldPath, rule)
		}
		return false, boom
	})
	_, err := visibility.Visible(eval, model.Field{Name: "tiger_type", VisibleWhen: "r"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected evaluator error, got %v", err)
	}
}
