// Package numbering produces human-readable quotation numbers.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

// DefaultTemplate yields numbers such as QUO-2406-003.
const DefaultTemplate = "QUO-{YY}{MM}-{SEQ3}"

// CopySuffix marks the number of a duplicated quotation.
const CopySuffix = "-COPY"

func resolveDates(template string, at time.Time) string {
	out := strings.ReplaceAll(template, "{YYYY}", at.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", at.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", at.Format("01"))
	return strings.ReplaceAll(out, "{DD}", at.Format("02"))
}

// Format renders template for the given month and sequence. It is pure.
func Format(template string, at time.Time, seq int) (string, error) {
	if template == "" {
		return "", fmt.Errorf("quotation number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid quotation sequence: %d", seq)
	}

	out := resolveDates(template, at)
	out = strings.ReplaceAll(out, "{SEQ}", strconv.Itoa(seq))
	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in quotation number format: %s", out)
	}
	return out, nil
}

// Prefix is the month scope of template at the given time: everything before
// the sequence token, without its trailing separator ("QUO-2406").
func Prefix(template string, at time.Time) string {
	head := template
	if idx := strings.Index(head, "{SEQ"); idx >= 0 {
		head = head[:idx]
	}
	return strings.TrimRight(resolveDates(head, at), "-_/ ")
}

// Next returns the number following existing within the month of at. Every
// existing number sharing the month prefix counts, duplicates included.
func Next(template string, at time.Time, existing []string) (string, error) {
	prefix := Prefix(template, at)
	count := 0
	for _, n := range existing {
		if strings.HasPrefix(n, prefix) {
			count++
		}
	}
	return Format(template, at, count+1)
}

// Copy returns the number used for a duplicate of number.
func Copy(number string) string {
	return number + CopySuffix
}
