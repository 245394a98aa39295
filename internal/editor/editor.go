// Package editor implements the markdown toolbar of the post editor as a pure
// transform over the textarea's text and selection.
package editor

import "errors"

var ErrUnknownCommand = errors.New("unknown formatting command")

type Command string

const (
	Bold         Command = "bold"
	Italic       Command = "italic"
	Heading1     Command = "heading1"
	Heading2     Command = "heading2"
	Heading3     Command = "heading3"
	BulletList   Command = "bullet_list"
	NumberedList Command = "numbered_list"
	Quote        Command = "quote"
	Link         Command = "link"
	Code         Command = "code"
	CodeBlock    Command = "code_block"
)

type token struct {
	prefix string
	suffix string
}

var tokens = map[Command]token{
	Bold:         {"**", "**"},
	Italic:       {"*", "*"},
	Heading1:     {"# ", ""},
	Heading2:     {"## ", ""},
	Heading3:     {"### ", ""},
	BulletList:   {"- ", ""},
	NumberedList: {"1. ", ""},
	Quote:        {"> ", ""},
	Link:         {"[", "](url)"},
	Code:         {"`", "`"},
	CodeBlock:    {"```\n", "\n```"},
}

// Commands lists the toolbar commands in display order.
func Commands() []Command {
	return []Command{Bold, Italic, Heading1, Heading2, Heading3, BulletList, NumberedList, Quote, Link, Code, CodeBlock}
}

type Result struct {
	Text           string `json:"text"`
	SelectionStart int    `json:"selection_start"`
	SelectionEnd   int    `json:"selection_end"`
}

// Apply inserts cmd's tokens around text[start:end]. Offsets are rune
// offsets; out of range values are clamped and reversed ranges swapped.
//
// With a selection the new selection covers the original text inside the
// tokens. Without one the cursor is placed right after the opening token.
func Apply(text string, start, end int, cmd Command) (Result, error) {
	tok, ok := tokens[cmd]
	if !ok {
		return Result{}, ErrUnknownCommand
	}

	runes := []rune(text)
	start, end = clamp(start, len(runes)), clamp(end, len(runes))
	if start > end {
		start, end = end, start
	}

	prefix, suffix := []rune(tok.prefix), []rune(tok.suffix)
	selected := runes[start:end]

	out := make([]rune, 0, len(runes)+len(prefix)+len(suffix))
	out = append(out, runes[:start]...)
	out = append(out, prefix...)
	out = append(out, selected...)
	out = append(out, suffix...)
	out = append(out, runes[end:]...)

	inner := start + len(prefix)
	return Result{
		Text:           string(out),
		SelectionStart: inner,
		SelectionEnd:   inner + len(selected),
	}, nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
