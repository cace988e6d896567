package shared

// Violation is a single business-rule violation with a stable, machine-readable code.
// Codes are constants owned by the package that declares the rule, so callers can
// branch or localize without parsing messages.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult accumulates rule violations. All rules for an entity run to
// completion; nothing short-circuits, so the caller always sees the full set.
type ValidationResult struct {
	Violations []Violation `json:"violations"`
}

// Add appends a violation to the result
func (r *ValidationResult) Add(code, field, message string) {
	r.Violations = append(r.Violations, Violation{Code: code, Field: field, Message: message})
}

// Valid returns true when no violations were recorded
func (r *ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// HasCode returns true if a violation with the given code was recorded
func (r *ValidationResult) HasCode(code string) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
