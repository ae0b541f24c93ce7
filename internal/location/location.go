package location

// Outcome is the result class of the client's geolocation attempt. Every
// non-success outcome is handled identically: the session falls back to
// manual station search.
type Outcome string

const (
	Success     Outcome = "success"
	Denied      Outcome = "denied"
	Unavailable Outcome = "unavailable"
	Timeout     Outcome = "timeout"
	Unsupported Outcome = "unsupported"
)

// Parse maps a reported outcome string to an Outcome. The empty string
// means the client supplied a coordinate, i.e. success.
func Parse(s string) (Outcome, bool) {
	switch Outcome(s) {
	case "", Success:
		return Success, true
	case Denied, Unavailable, Timeout, Unsupported:
		return Outcome(s), true
	}
	return "", false
}

// OK reports whether the outcome carries a usable coordinate.
func (o Outcome) OK() bool { return o == Success }
