package fsmx

import (
	"fmt"
	"sort"
)

// Description is a serializable view of a machine's definition and current
// state, used by visualizers and diagnostics.
type Description struct {
	Name     string             `json:"name" yaml:"name"`
	Flavor   string             `json:"flavor" yaml:"flavor"`
	Initial  string             `json:"initial" yaml:"initial"`
	Current  string             `json:"current,omitempty" yaml:"current,omitempty"`
	Started  bool               `json:"started" yaml:"started"`
	Events   []string           `json:"events,omitempty" yaml:"events,omitempty"`
	Defaults []string           `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	States   []StateDescription `json:"states" yaml:"states"`
}

// StateDescription describes one state.
type StateDescription struct {
	ID      int      `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Hooks   []string `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	Reacts  []string `json:"reacts,omitempty" yaml:"reacts,omitempty"`
	Targets []string `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// Describe returns the machine's Description.
func (m *Machine) Describe() Description {
	d := Description{
		Name:    m.name,
		Flavor:  m.flavor.String(),
		Initial: m.slots[m.initial].name,
		Started: m.ready,
	}
	if m.ready {
		d.Current = m.slots[m.current].name
	}
	for k, ok := range m.handles {
		if ok {
			d.Events = append(d.Events, m.kindNames[k])
		}
	}

	defaults := map[int]bool{}
	for i := range m.slots {
		s := &m.slots[i]
		if !s.defined {
			continue
		}
		sd := StateDescription{
			ID:    i,
			Name:  s.name,
			Type:  fmt.Sprintf("%T", s.inst),
			Hooks: s.hookNames(),
		}
		for k, r := range s.reactions {
			switch {
			case r == nil:
			case s.own[k]:
				sd.Reacts = append(sd.Reacts, m.kindNames[k])
			default:
				defaults[k] = true
			}
		}
		for j, ok := range s.targets {
			if ok {
				sd.Targets = append(sd.Targets, m.slots[j].name)
			}
		}
		d.States = append(d.States, sd)
	}
	for k := range defaults {
		d.Defaults = append(d.Defaults, m.kindNames[k])
	}
	sort.Strings(d.Defaults)
	return d
}
