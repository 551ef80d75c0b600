package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	keyVersion        = "Version"
	keyCulture        = "Culture"
	keyPublicKeyToken = "PublicKeyToken"
)

// Identity is the identity of an assembly: its simple name and optional version, culture and public key token,
// e.g. "mscorlib, Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089"
type Identity struct {
	Name           string
	Version        string
	Culture        string
	PublicKeyToken string
}

// ParseIdentity parses the display form of an assembly identity. Unknown attributes are ignored.
func ParseIdentity(s string) (Identity, error) {
	parts := strings.Split(s, ",")
	id := Identity{Name: strings.TrimSpace(parts[0])}
	if id.Name == "" || strings.ContainsAny(id.Name, "=[]") {
		return Identity{}, fmt.Errorf("invalid assembly identity: %q", s)
	}
	for _, p := range parts[1:] {
		k, v, found := strings.Cut(p, "=")
		if !found {
			return Identity{}, fmt.Errorf("invalid assembly identity attribute %q in %q", p, s)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case strings.EqualFold(k, keyVersion):
			id.Version = v
		case strings.EqualFold(k, keyCulture):
			id.Culture = v
		case strings.EqualFold(k, keyPublicKeyToken):
			id.PublicKeyToken = v
		}
	}
	return id, nil
}

// MustParseIdentity is like ParseIdentity but panics on error
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the display form of the identity, omitting empty attributes
func (id Identity) String() string {
	var b strings.Builder
	b.WriteString(id.Name)
	if id.Version != "" {
		b.WriteString(", " + keyVersion + "=" + id.Version)
	}
	if id.Culture != "" {
		b.WriteString(", " + keyCulture + "=" + id.Culture)
	}
	if id.PublicKeyToken != "" {
		b.WriteString(", " + keyPublicKeyToken + "=" + id.PublicKeyToken)
	}
	return b.String()
}

// Matches reports whether the identity satisfies the requested identity. Names are compared case-insensitively,
// the other attributes are only compared when both identities carry them.
func (id Identity) Matches(req Identity) bool {
	if !strings.EqualFold(id.Name, req.Name) {
		return false
	}
	if id.Version != "" && req.Version != "" && id.Version != req.Version {
		return false
	}
	if id.Culture != "" && req.Culture != "" && !strings.EqualFold(id.Culture, req.Culture) {
		return false
	}
	if !tokenEmpty(id.PublicKeyToken) && !tokenEmpty(req.PublicKeyToken) &&
		!strings.EqualFold(id.PublicKeyToken, req.PublicKeyToken) {
		return false
	}
	return true
}

func tokenEmpty(t string) bool {
	return t == "" || strings.EqualFold(t, "null")
}

// compareVersions compares two four-part assembly versions. The first three parts are compared with semantic
// versioning rules, the fourth (revision) numerically. Unparseable versions sort lowest.
func compareVersions(a, b string) int {
	va, ra, errA := splitVersion(a)
	vb, rb, errB := splitVersion(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	if c := va.Compare(vb); c != 0 {
		return c
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	return 0
}

func splitVersion(v string) (*semver.Version, int, error) {
	parts := strings.Split(v, ".")
	rev := 0
	if len(parts) > 3 {
		r, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, 0, err
		}
		rev = r
		parts = parts[:3]
	}
	sv, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, 0, err
	}
	return sv, rev, nil
}
