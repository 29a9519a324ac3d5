package exercise

import "fmt"

// Validator checks a generated exercise before it is handed out.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural" or "quiz".
	Name() string

	Validate(ex *Exercise, req GenerateRequest) *RejectedError
}

// RejectedError describes why a generated exercise failed validation.
type RejectedError struct {
	Validator string
	Message   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that the learner-facing fields are present.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(ex *Exercise, _ GenerateRequest) *RejectedError {
	switch {
	case ex.Title == "":
		return &RejectedError{Validator: v.Name(), Message: "title is empty"}
	case ex.Instructions == "":
		return &RejectedError{Validator: v.Name(), Message: "instructions are empty"}
	case len(ex.Title) > 200:
		return &RejectedError{Validator: v.Name(), Message: "title exceeds 200 characters"}
	}
	return nil
}

// QuizValidator checks that quiz exercises carry answerable questions.
type QuizValidator struct{}

func (v *QuizValidator) Name() string { return "quiz" }

func (v *QuizValidator) Validate(ex *Exercise, _ GenerateRequest) *RejectedError {
	if ex.Type != TypeQuiz {
		return nil
	}
	if len(ex.Questions) == 0 {
		return &RejectedError{Validator: v.Name(), Message: "quiz has no questions"}
	}
	for i, q := range ex.Questions {
		if q.Question == "" {
			return &RejectedError{Validator: v.Name(), Message: fmt.Sprintf("question %d is empty", i+1)}
		}
		if len(q.Options) < 2 {
			return &RejectedError{Validator: v.Name(), Message: fmt.Sprintf("question %d has fewer than 2 options", i+1)}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return &RejectedError{Validator: v.Name(), Message: fmt.Sprintf("question %d correct_index out of range", i+1)}
		}
	}
	return nil
}

// CodingValidator requires starter code for coding exercises.
type CodingValidator struct{}

func (v *CodingValidator) Name() string { return "coding" }

func (v *CodingValidator) Validate(ex *Exercise, _ GenerateRequest) *RejectedError {
	if ex.Type == TypeCoding && ex.StarterCode == "" {
		return &RejectedError{Validator: v.Name(), Message: "coding exercise has no starter code"}
	}
	return nil
}
