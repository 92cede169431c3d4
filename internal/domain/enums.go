package domain

// Status is the learner's self-reported mastery state for a record.
type Status string

const (
	StatusUnmastered Status = "unmastered"
	StatusMastered   Status = "mastered"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusUnmastered, StatusMastered:
		return true
	}
	return false
}

// ParseStatus accepts the two status values case-sensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", NewValidationError("status", "must be mastered or unmastered")
	}
	return s, nil
}

// ExportFormat selects the tabular export encoding.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatXLSX, ExportFormatCSV:
		return true
	}
	return false
}
