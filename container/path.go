package container

import (
	"fmt"
	"strings"
)

// Separator is the hierarchy separator.
const Separator = "/"

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/foo" -> []string{"foo"}
//   - "/foo/bar" -> []string{"foo", "bar"}
func SplitPath(path string) []string {
	path = strings.Trim(path, Separator)
	if path == "" {
		return []string{}
	}
	parts := strings.Split(path, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no
// trailing slash or empty components.
func CleanPath(path string) string {
	return Separator + strings.Join(SplitPath(path), Separator)
}

// JoinPath appends name to a group path.
func JoinPath(group, name string) string {
	if group == Separator || group == "" {
		return Separator + name
	}
	return group + Separator + name
}

// Parent returns the path of the group containing path.
func Parent(path string) string {
	parts := SplitPath(path)
	if len(parts) <= 1 {
		return Separator
	}
	return Separator + strings.Join(parts[:len(parts)-1], Separator)
}

// Base returns the last component of path, or "/" for the root.
func Base(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return Separator
	}
	return parts[len(parts)-1]
}

// ValidateName checks a single path component.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: bad component %q", ErrInvalidPath, name)
	case strings.Contains(name, Separator):
		return fmt.Errorf("%w: component %q contains %q", ErrInvalidPath, name, Separator)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: component %q contains NUL", ErrInvalidPath, name)
	}
	return nil
}

// ValidatePath checks that path is absolute and every component is valid.
// The root path "/" is valid.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, Separator) {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, path)
	}
	for _, p := range strings.Split(strings.TrimPrefix(path, Separator), Separator) {
		if p == "" && path == Separator {
			continue
		}
		if err := ValidateName(p); err != nil {
			return err
		}
	}
	return nil
}
