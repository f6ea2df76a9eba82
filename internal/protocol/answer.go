package protocol

import "fmt"

// AnswerKind tags the payload of an Answer.
type AnswerKind byte

const (
	AnswerPing AnswerKind = iota + 1
	AnswerNext
	AnswerAll
	AnswerWaybar
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerPing:
		return "ping"
	case AnswerNext:
		return "next"
	case AnswerAll:
		return "all"
	case AnswerWaybar:
		return "waybar"
	default:
		return fmt.Sprintf("answer(%d)", byte(k))
	}
}

func (k AnswerKind) valid() bool {
	return k >= AnswerPing && k <= AnswerWaybar
}

// Entry is one (name, absolute time) pair of a day listing.
type Entry struct {
	Name string
	Time string
}

// Answer is the daemon's reply. Which fields are meaningful depends on
// Kind: Next uses Name, Time and Relative; All uses Entries; Waybar uses
// all four.
type Answer struct {
	Kind     AnswerKind
	Name     string
	Time     string
	Relative string
	Entries  []Entry
}

// Pending is the relative text sent when no event has been popped yet.
const Pending = "not yet determined"

func PingAnswer() *Answer {
	return &Answer{Kind: AnswerPing}
}

func NextAnswer(name, time, relative string) *Answer {
	return &Answer{Kind: AnswerNext, Name: name, Time: time, Relative: relative}
}

func AllAnswer(entries []Entry) *Answer {
	return &Answer{Kind: AnswerAll, Entries: entries}
}

func WaybarAnswer(name, time, relative string, entries []Entry) *Answer {
	return &Answer{Kind: AnswerWaybar, Name: name, Time: time, Relative: relative, Entries: entries}
}

// Determined reports whether a Next or Waybar answer names an event.
func (a *Answer) Determined() bool {
	return a.Name != ""
}
