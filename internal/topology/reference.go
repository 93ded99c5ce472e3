package topology

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pseudo parameters resolved by the provisioning engine.
const (
	Region  = "${aws:region}"
	Account = "${aws:account}"
)

var tokenPattern = regexp.MustCompile(`\$\{ref:([a-z0-9_-]+)\.([A-Za-z0-9]+)\}`)

// Reference points at a generated attribute of another descriptor, such as
// the endpoint address of a database.
type Reference struct {
	Name string
	Attr string
}

func (r Reference) String() string {
	return fmt.Sprintf("${ref:%s.%s}", r.Name, r.Attr)
}

// Attr returns the token for attribute attr of d. The caller must also add d
// to its DependsOn; Stack.Add rejects tokens without a matching edge.
func Attr(d Descriptor, attr string) string {
	return Reference{Name: d.Metadata().Name, Attr: attr}.String()
}

// ParseReferences returns every reference token embedded in s.
func ParseReferences(s string) []Reference {
	var refs []Reference
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		refs = append(refs, Reference{Name: m[1], Attr: m[2]})
	}
	return refs
}

// HasTokens reports whether s needs resolution by the engine.
func HasTokens(s string) bool {
	return strings.Contains(s, "${")
}

// References returns the distinct reference tokens found anywhere in d's
// serialized fields.
func References(d Descriptor) ([]Reference, error) {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return nil, err
	}
	seen := make(map[Reference]bool)
	var out []Reference
	for _, ref := range ParseReferences(string(raw)) {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out, nil
}
