package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
	FieldTypeEnum   FieldType = "enum"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRulePattern   = "pattern"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
)

// ValidationRule represents a single validation constraint applied to a field.
// Length limits encode their threshold in Params["value"] while pattern rules
// preserve the expression in Params["pattern"]. Message is the text surfaced
// next to the field when the rule fails.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message" yaml:"message"`
}

// Option is a single (label, value) entry of an enumerated field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Field models an individual input inside the form.
type Field struct {
	Name        string           `json:"name" yaml:"name"`
	Type        FieldType        `json:"type" yaml:"type"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Required reports whether the field declares a required rule.
func (f Field) Required() bool {
	for _, rule := range f.Validations {
		if rule.Kind == ValidationRuleRequired {
			return true
		}
	}
	return false
}

// FormModel is the top-level representation the form and renderers consume.
type FormModel struct {
	OperationID string  `json:"operationId" yaml:"operationId"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field looks up a field definition by name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
