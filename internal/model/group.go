package model

import (
	"slices"
	"strings"
)

// GroupSeparator joins an owner group and a local name.
const GroupSeparator = "_"

// ReservedGroupName cannot be used as a group name.
const ReservedGroupName = "stats"

// Group is a named set of members scoping part of the catalog.
type Group struct {
	Name    string  `json:"name"`
	Members []int64 `json:"members"`
}

// HasMember reports whether userID belongs to the group.
func (g Group) HasMember(userID int64) bool {
	return slices.Contains(g.Members, userID)
}

// ValidateGroupName rejects empty, reserved and separator-containing names.
func ValidateGroupName(name string) error {
	if name == "" || strings.EqualFold(name, ReservedGroupName) || strings.Contains(name, GroupSeparator) || strings.ContainsAny(name, " \t\n") {
		return ErrInvalidName
	}
	return nil
}

// ScopedName is a local name optionally owned by a group.
type ScopedName struct {
	Group string
	Local string
}

// Key returns the flat catalog key.
func (n ScopedName) Key() string {
	if n.Group == "" {
		return n.Local
	}
	return n.Group + GroupSeparator + n.Local
}

// StripOwner removes the owner prefix from key.
func StripOwner(key, owner string) string {
	if owner == "" {
		return key
	}
	return strings.TrimPrefix(key, owner+GroupSeparator)
}

// ResolvePrefix finds the group whose prefix starts key.
// Longer group names are tried first so that overlapping names resolve deterministically.
func ResolvePrefix(key string, groups []string) (ScopedName, bool) {
	names := slices.Clone(groups)
	slices.SortFunc(names, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	for _, g := range names {
		prefix := g + GroupSeparator
		if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			return ScopedName{Group: g, Local: key[len(prefix):]}, true
		}
	}
	return ScopedName{}, false
}
