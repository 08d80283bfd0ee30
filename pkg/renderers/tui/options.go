package tui

// Theme captures optional formatting hints applied when printing messages.
// Keep minimal to avoid coupling screen logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme is used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:    "-",
		SuccessPrefix: "✔",
		ErrorPrefix:   "✘",
	}
}

// Option configures a Screen.
type Option func(*Screen)

// WithPromptDriver overrides the prompt driver used by the screen.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Screen) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Screen) {
		s.theme = theme
	}
}

// WithDeferredValidation disables per-field validation while prompting.
// Errors then surface only when the submission is attempted, after which the
// invalid fields are prompted again.
func WithDeferredValidation() Option {
	return func(s *Screen) {
		s.inline = false
	}
}
