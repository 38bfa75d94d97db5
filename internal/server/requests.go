package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// maxRequestBody caps the size of a decoded request body.
const maxRequestBody = 4 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// architectureRequest carries a canvas snapshot.
type architectureRequest struct {
	Nodes []model.Node `json:"nodes"`
	Edges []model.Edge `json:"edges"`
}

func (r architectureRequest) architecture() *model.Architecture {
	return &model.Architecture{Nodes: r.Nodes, Edges: r.Edges}
}

type recalculateRequest struct {
	architectureRequest
	ChangedNodeID string `json:"changed_node_id" validate:"required"`
}

type propagationRequest struct {
	Edges         []model.Edge `json:"edges"`
	ChangedNodeID string       `json:"changed_node_id" validate:"required"`
}

type compatibilityRequest struct {
	SourceComponentID string `json:"source_component_id" validate:"required"`
	TargetComponentID string `json:"target_component_id" validate:"required"`
}

// decodeRequest reads a JSON body into v and validates its struct tags.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return inputError("invalid JSON body: " + err.Error())
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationInputError(verrs)
		}
		return err
	}
	return nil
}

func validationInputError(verrs validator.ValidationErrors) inputError {
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fe.Field() + " is required"
		default:
			msgs[i] = fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return inputError(strings.Join(msgs, "; "))
}

// fieldErrorBody is the JSON shape of a model validation failure.
type fieldErrorBody struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldErrors(ve *model.ValidationError) []fieldErrorBody {
	out := make([]fieldErrorBody, len(ve.Errors))
	for i, fe := range ve.Errors {
		out[i] = fieldErrorBody{Field: fe.Field, Message: fe.Message}
	}
	return out
}
