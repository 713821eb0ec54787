package catalog

import "strings"

// ClientRef is the denormalized client reference persisted on quotation
// headers: either a catalog client code, or free text when the client was
// typed in by hand (historical rows carry "code name…" concatenations).
type ClientRef struct {
	Code string
	Name string
}

// ParseClientRef splits a raw header value into its code-or-name parts.
// The first whitespace-delimited token is treated as the candidate code;
// whatever remains is the name. A single-token value may be either, so
// both fields carry it and resolution decides.
func ParseClientRef(raw string) ClientRef {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ClientRef{}
	}
	fields := strings.Fields(trimmed)
	if len(fields) == 1 {
		return ClientRef{Code: fields[0], Name: fields[0]}
	}
	return ClientRef{Code: fields[0], Name: strings.Join(fields[1:], " ")}
}

func (r ClientRef) IsZero() bool { return r.Code == "" && r.Name == "" }
