/*
Copyright 2013 The Perkeep Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package bringup defines a JSON object helper for describing which
// drivers, servers, and filesystems come up at boot and in what order.
// The Obj type and its Required*/Optional* accessors are adapted from
// jsonconfig.Obj, generalized here to also validate a bring-up list's
// dependency ordering.
package bringup

import (
	"fmt"
	"strings"
)

// Obj is a JSON configuration map, one entry of a bring-up list.
type Obj map[string]interface{}

func (o Obj) noteKnownKey(key string) {
	_, ok := o["_knownkeys"]
	if !ok {
		o["_knownkeys"] = make(map[string]bool)
	}
	o["_knownkeys"].(map[string]bool)[key] = true
}

func (o Obj) appendError(err error) {
	ei, ok := o["_errors"]
	if ok {
		o["_errors"] = append(ei.([]error), err)
	} else {
		o["_errors"] = []error{err}
	}
}

func (o Obj) RequiredString(key string) string { return o.string(key, nil) }
func (o Obj) OptionalString(key, def string) string { return o.string(key, &def) }

func (o Obj) string(key string, def *string) string {
	o.noteKnownKey(key)
	ei, ok := o[key]
	if !ok {
		if def != nil {
			return *def
		}
		o.appendError(fmt.Errorf("missing required key %q (string)", key))
		return ""
	}
	s, ok := ei.(string)
	if !ok {
		o.appendError(fmt.Errorf("key %q must be a string, not %T", key, ei))
		return ""
	}
	return s
}

func (o Obj) RequiredBool(key string) bool { return o.boolean(key, nil) }
func (o Obj) OptionalBool(key string, def bool) bool { return o.boolean(key, &def) }

func (o Obj) boolean(key string, def *bool) bool {
	o.noteKnownKey(key)
	ei, ok := o[key]
	if !ok {
		if def != nil {
			return *def
		}
		o.appendError(fmt.Errorf("missing required key %q (bool)", key))
		return false
	}
	b, ok := ei.(bool)
	if !ok {
		o.appendError(fmt.Errorf("key %q must be a bool, not %T", key, ei))
		return false
	}
	return b
}

func (o Obj) RequiredInt(key string) int { return o.integer(key, nil) }
func (o Obj) OptionalInt(key string, def int) int { return o.integer(key, &def) }

func (o Obj) integer(key string, def *int) int {
	o.noteKnownKey(key)
	ei, ok := o[key]
	if !ok {
		if def != nil {
			return *def
		}
		o.appendError(fmt.Errorf("missing required key %q (int)", key))
		return 0
	}
	f, ok := ei.(float64)
	if !ok {
		o.appendError(fmt.Errorf("key %q must be a number, not %T", key, ei))
		return 0
	}
	return int(f)
}

func (o Obj) OptionalList(key string) []string {
	o.noteKnownKey(key)
	ei, ok := o[key]
	if !ok {
		return nil
	}
	eil, ok := ei.([]interface{})
	if !ok {
		o.appendError(fmt.Errorf("key %q must be a list, not %T", key, ei))
		return nil
	}
	sl := make([]string, len(eil))
	for i, v := range eil {
		s, ok := v.(string)
		if !ok {
			o.appendError(fmt.Errorf("key %q index %d must be a string, not %T", key, i, v))
			return nil
		}
		sl[i] = s
	}
	return sl
}

// Validate reports unknown keys (any key not fetched through a
// Required*/Optional* accessor, excluding keys with a leading
// underscore) and any error accumulated while reading known ones.
func (o Obj) Validate() error {
	ei, ok := o["_knownkeys"]
	var known map[string]bool
	if ok {
		known = ei.(map[string]bool)
	}
	for k := range o {
		if ok && known[k] {
			continue
		}
		if strings.HasPrefix(k, "_") {
			continue
		}
		o.appendError(fmt.Errorf("unknown key %q", k))
	}

	ei, ok = o["_errors"]
	if !ok {
		return nil
	}
	errs := ei.([]error)
	if len(errs) == 1 {
		return errs[0]
	}
	strs := make([]string, len(errs))
	for i, e := range errs {
		strs[i] = e.Error()
	}
	return fmt.Errorf("bringup: multiple errors: %s", strings.Join(strs, "; "))
}

// Unit is one component of the bring-up sequence: a named driver, server,
// or filesystem mount, with the other units it must follow.
type Unit struct {
	Name     string
	Kind     string // "driver", "server", "mount"
	Target   string // e.g. device/path/address, kind-specific
	After    []string
	Optional bool
}

// UnitFromObj parses obj into a Unit, recording any malformed field on
// obj's own error list.
func UnitFromObj(obj Obj) Unit {
	return Unit{
		Name:     obj.RequiredString("name"),
		Kind:     obj.RequiredString("kind"),
		Target:   obj.OptionalString("target", ""),
		After:    obj.OptionalList("after"),
		Optional: obj.OptionalBool("optional", false),
	}
}

// Sequence orders units so that each appears after everything it names in
// After, failing on an unknown dependency name or a dependency cycle.
func Sequence(units []Unit) ([]Unit, error) {
	byName := make(map[string]Unit, len(units))
	for _, u := range units {
		byName[u.Name] = u
	}
	for _, u := range units {
		for _, dep := range u.After {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("bringup: unit %q depends on unknown unit %q", u.Name, dep)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(units))
	var order []Unit
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("bringup: dependency cycle at unit %q", name)
		}
		state[name] = visiting
		u := byName[name]
		for _, dep := range u.After {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, u)
		return nil
	}

	for _, u := range units {
		if err := visit(u.Name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
