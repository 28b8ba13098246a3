package broadcast

import "strings"

const (
	StatusQueued     = "Messages queued successfully"
	StatusNeedInput  = "Please select a page and enter a message"
	NoPageSelected   = "No Page Selected"
	fetchErrorPrefix = "Error fetching pages: "
	sendErrorPrefix  = "Error sending messages: "
)

type StatusKind string

const (
	KindNone    StatusKind = ""
	KindInfo    StatusKind = "info"
	KindSuccess StatusKind = "success"
	KindError   StatusKind = "error"
)

// Status is the single line shown under the form. Kind drives styling.
type Status struct {
	Text string     `json:"text"`
	Kind StatusKind `json:"kind"`
}

func (s Status) IsError() bool {
	return s.Kind == KindError
}

func (s Status) Empty() bool {
	return s.Text == ""
}

func infoStatus(text string) Status {
	return Status{Text: text, Kind: KindInfo}
}

func successStatus(text string) Status {
	return Status{Text: text, Kind: KindSuccess}
}

func errorStatus(prefix string, err error) Status {
	return Status{Text: prefix + err.Error(), Kind: KindError}
}

// ErrorStatus builds an error status from free text, prefixing "Error: "
// unless the text already names itself as one.
func ErrorStatus(text string) Status {
	if !strings.HasPrefix(text, "Error") {
		text = "Error: " + text
	}
	return Status{Text: text, Kind: KindError}
}
