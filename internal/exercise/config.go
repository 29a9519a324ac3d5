package exercise

// Config controls exercise generation and evaluation.
type Config struct {
	// Validators run in order on every generated exercise; the first
	// failure stops the pipeline.
	Validators []Validator

	GenerateMaxTokens int
	EvaluateMaxTokens int
	Temperature       float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&QuizValidator{},
			&CodingValidator{},
		},
		GenerateMaxTokens: 1200,
		EvaluateMaxTokens: 800,
		Temperature:       0.5,
	}
}
