package entities

// Status is the verdict of a single check
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
)

// Spreadsheet font colors, ARGB
const (
	ColorBlack = "FF000000"
	ColorRed   = "FFFF0000"
)

// StyleHints only drive spreadsheet formatting
type StyleHints struct {
	Bold      bool
	Italic    bool
	FontColor string
}

// CheckOutcome is the uniform result of one validation check
type CheckOutcome struct {
	Status   Status
	Response string
	Name     string
	Style    StyleHints
}

// NewOutcome builds an outcome whose style follows its status
func NewOutcome(name, response string, passed bool) CheckOutcome {
	if passed {
		return CheckOutcome{
			Status:   StatusPassed,
			Response: response,
			Name:     name,
			Style:    StyleHints{FontColor: ColorBlack},
		}
	}
	return CheckOutcome{
		Status:   StatusFailed,
		Response: response,
		Name:     name,
		Style:    StyleHints{FontColor: ColorRed},
	}
}

// Passed reports whether the check passed
func (o CheckOutcome) Passed() bool {
	return o.Status == StatusPassed
}
