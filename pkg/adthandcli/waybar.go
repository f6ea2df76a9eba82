package adthandcli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adthand/adthand/internal/protocol"
)

// WaybarOutput is the JSON object read by a waybar custom module.
type WaybarOutput struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Alt     string `json:"alt"`
}

func NewWaybarOutput(a *protocol.Answer) WaybarOutput {
	lines := make([]string, len(a.Entries))
	for i, e := range a.Entries {
		lines[i] = fmt.Sprintf("%s: %s", e.Name, e.Time)
	}
	out := WaybarOutput{Tooltip: strings.Join(lines, "\n")}
	if !a.Determined() {
		out.Text = a.Relative
		out.Alt = a.Relative
		return out
	}
	out.Text = fmt.Sprintf("%s %s", a.Name, a.Relative)
	out.Alt = fmt.Sprintf("%s at %s", a.Name, a.Time)
	return out
}

func (w WaybarOutput) JSON() ([]byte, error) {
	return json.Marshal(w)
}
