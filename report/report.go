package report

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/aquaswift/aquaswift-api/types"
)

// Model is a hosted language model that completes a single prompt
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

const promptTemplate = `You are an expert in water purification.

Based on the following information about the water source, generate a detailed water quality report and recommend suitable water purifiers from our product catalog.

Location: {{.Location}}
Source Type: {{.SourceType}}
Contaminants (if known): {{.Contaminants}}
Specific Concerns: {{.SpecificConcerns}}

Respond only with a JSON object of the form {"report": string, "recommendedPurifiers": string}.
`

// Generator turns a water source questionnaire into a report
// and purifier recommendation with one model call
type Generator struct {
	model    Model
	prompt   *template.Template
	validate *validator.Validate
}

// NewGenerator creates a Generator backed by the given model
func NewGenerator(model Model) (*Generator, error) {
	prompt, err := template.New("waterQualityReportPrompt").Parse(promptTemplate)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	return &Generator{
		model:    model,
		prompt:   prompt,
		validate: validate,
	}, nil
}

// Generate validates the input, renders the prompt, calls the model
// and validates its structured output. Nothing is retried
func (g *Generator) Generate(ctx context.Context, input types.ReportInput) (*types.ReportOutput, error) {
	input = trimInput(input)
	if fields := g.missingFields(input); len(fields) > 0 {
		return nil, NewValidationError(fields...)
	}

	prompt, err := g.Render(input)
	if err != nil {
		return nil, NewGenerationError("render prompt", err)
	}

	log.Ctx(ctx).Debug().Str("model", g.model.Name()).Str("location", input.Location).Msg("generating water quality report")
	raw, err := g.model.Generate(ctx, prompt)
	if err != nil {
		return nil, NewGenerationError("model call", err)
	}

	var output types.ReportOutput
	if err := json.Unmarshal([]byte(extractJSONFragment(raw)), &output); err != nil {
		return nil, NewGenerationError("decode model output", err)
	}
	if fields := g.missingFields(output); len(fields) > 0 {
		return nil, NewGenerationError("model output missing "+strings.Join(fields, ", "), nil)
	}

	return &output, nil
}

// Render substitutes the four questionnaire fields into the prompt
func (g *Generator) Render(input types.ReportInput) (string, error) {
	var buf bytes.Buffer
	if err := g.prompt.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Blank answers count as missing
func trimInput(input types.ReportInput) types.ReportInput {
	return types.ReportInput{
		Location:         strings.TrimSpace(input.Location),
		SourceType:       strings.TrimSpace(input.SourceType),
		Contaminants:     strings.TrimSpace(input.Contaminants),
		SpecificConcerns: strings.TrimSpace(input.SpecificConcerns),
	}
}

func (g *Generator) missingFields(value interface{}) []string {
	err := g.validate.Struct(value)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields = append(fields, fieldError.Field())
	}
	return fields
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// extractJSONFragment strips code fences and surrounding prose
// from a model reply, leaving the outermost JSON object
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
