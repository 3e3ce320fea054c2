package graph

import (
	"strconv"
	"strings"

	"github.com/matzehuels/pathcanvas/pkg/errors"
)

// uniqueLabel returns a label for a new node. Labels that fail
// errors.ValidateLabel are treated as absent.
func (m *Model) uniqueLabel(label string) string {
	label = strings.TrimSpace(label)
	if errors.ValidateLabel(label) != nil {
		return m.NextLabel()
	}
	if _, taken := m.labels[label]; !taken {
		return label
	}
	for i := 2; ; i++ {
		candidate := label + "_" + strconv.Itoa(i)
		if _, taken := m.labels[candidate]; !taken {
			return candidate
		}
	}
}

// NextLabel returns the first free generated label: the prefix followed by
// the smallest positive integer not yet in use.
func (m *Model) NextLabel() string {
	for i := 1; ; i++ {
		candidate := m.prefix + strconv.Itoa(i)
		if _, taken := m.labels[candidate]; !taken {
			return candidate
		}
	}
}

// LabelAvailable reports whether label is well formed and not used by any
// node other than except. Pass 0 to check against all nodes.
func (m *Model) LabelAvailable(label string, except NodeID) bool {
	if errors.ValidateLabel(label) != nil {
		return false
	}
	owner, taken := m.labels[label]
	return !taken || owner == except
}
