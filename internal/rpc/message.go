package rpc

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/wordle-solver/internal/catalog"
	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// #region types
// Request is the decoded form of a BestGuess or PossibleWords request.
// Weight is only honored by BestGuess; nil selects the adaptive ranking.
type Request struct {
	Language string
	Steps    []feedback.Step
	Weight   *float64
}

// Candidate is one row of a PossibleWords response.
type Candidate struct {
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}
// #endregion types

// #region decode
// DecodeRequest reads a request struct. steps may be a list of
// {guess, answer} objects or the compact "guess:answer,..." string.
func DecodeRequest(s *structpb.Struct) (Request, error) {
	fields := s.GetFields()
	var req Request

	lang, ok := fields["language"]
	if !ok {
		return req, fmt.Errorf("missing field language")
	}
	if _, isString := lang.GetKind().(*structpb.Value_StringValue); !isString {
		return req, fmt.Errorf("field language must be a string")
	}
	req.Language = lang.GetStringValue()

	if v, ok := fields["steps"]; ok {
		steps, err := decodeSteps(v)
		if err != nil {
			return req, err
		}
		req.Steps = steps
	}

	if v, ok := fields["weight"]; ok {
		if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
			return req, fmt.Errorf("field weight must be a number")
		}
		w := v.GetNumberValue()
		req.Weight = &w
	}
	return req, nil
}

func decodeSteps(v *structpb.Value) ([]feedback.Step, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		return feedback.ParseSteps(kind.StringValue)
	case *structpb.Value_ListValue:
		items := kind.ListValue.GetValues()
		steps := make([]feedback.Step, 0, len(items))
		for i, item := range items {
			obj := item.GetStructValue()
			if obj == nil {
				return nil, fmt.Errorf("step %d: expected an object", i+1)
			}
			guess, ok := obj.GetFields()["guess"]
			if !ok {
				return nil, fmt.Errorf("step %d: missing guess", i+1)
			}
			answer, ok := obj.GetFields()["answer"]
			if !ok {
				return nil, fmt.Errorf("step %d: missing answer", i+1)
			}
			steps = append(steps, feedback.Step{
				Guess:  strings.ToLower(strings.TrimSpace(guess.GetStringValue())),
				Answer: feedback.Pattern(strings.TrimSpace(answer.GetStringValue())),
			})
		}
		return steps, nil
	default:
		return nil, fmt.Errorf("field steps must be a list or a string")
	}
}
// #endregion decode

// #region encode
// EncodeRequest is the inverse of DecodeRequest, always using the list form.
func EncodeRequest(req Request) (*structpb.Struct, error) {
	steps := make([]any, len(req.Steps))
	for i, st := range req.Steps {
		steps[i] = map[string]any{"guess": st.Guess, "answer": string(st.Answer)}
	}
	m := map[string]any{"language": req.Language, "steps": steps}
	if req.Weight != nil {
		m["weight"] = *req.Weight
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return s, nil
}

func wordResponse(word string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"response": word})
}

func candidatesResponse(words []catalog.Word) (*structpb.Struct, error) {
	rows := make([]any, len(words))
	for i, w := range words {
		rows[i] = map[string]any{"word": w.Word, "probability": w.Probability}
	}
	return structpb.NewStruct(map[string]any{"response": rows})
}

func decodeCandidates(s *structpb.Struct) ([]Candidate, error) {
	list := s.GetFields()["response"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("response is not a list")
	}
	out := make([]Candidate, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		f := v.GetStructValue().GetFields()
		out = append(out, Candidate{
			Word:        f["word"].GetStringValue(),
			Probability: f["probability"].GetNumberValue(),
		})
	}
	return out, nil
}
// #endregion encode
