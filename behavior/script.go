package behavior

import (
	"errors"
	"fmt"
	"sort"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const scriptPriorityVar = "priority"

var ErrNoPriority = errors.New("behavior: script does not define priority")

// ScriptPriority scores a task with a tengo script. The script sees each input
// as a global and must define a top-level `priority` variable; a negative
// value means ineligible. Inputs are declared at compile time and every Eval
// overwrites all of them, so no value leaks between evaluations.
type ScriptPriority struct {
	name     string
	compiled *tengo.Compiled
	inputs   []string
}

// CompileScriptPriority compiles src with the given input names and their zero
// values, then runs it once against those values. The script may import
// tengo's math module.
func CompileScriptPriority(name string, src []byte, defaults map[string]any) (*ScriptPriority, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))

	inputs := make([]string, 0, len(defaults))
	for k := range defaults {
		inputs = append(inputs, k)
	}
	sort.Strings(inputs)
	for _, k := range inputs {
		if err := script.Add(k, defaults[k]); err != nil {
			return nil, fmt.Errorf("behavior: script %s: add %s: %w", name, k, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile script %s: %w", name, err)
	}
	// Globals stay undefined until the first run.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("behavior: run script %s: %w", name, err)
	}
	if !compiled.IsDefined(scriptPriorityVar) {
		return nil, fmt.Errorf("%w: %s", ErrNoPriority, name)
	}

	return &ScriptPriority{name: name, compiled: compiled, inputs: inputs}, nil
}

// Name returns the script name given at compile time.
func (sp *ScriptPriority) Name() string {
	if sp == nil {
		return ""
	}
	return sp.name
}

// Eval runs the script against values and returns the priority it assigned.
// Inputs missing from values are reset to their zero value for this run.
func (sp *ScriptPriority) Eval(values map[string]any) (int, error) {
	if sp == nil || sp.compiled == nil {
		return Ineligible, fmt.Errorf("behavior: nil script priority")
	}
	for _, k := range sp.inputs {
		v, ok := values[k]
		if !ok {
			v = zeroLike(sp.compiled.Get(k).Value())
		}
		if err := sp.compiled.Set(k, v); err != nil {
			return Ineligible, fmt.Errorf("behavior: script %s: set %s: %w", sp.name, k, err)
		}
	}
	if err := sp.compiled.Run(); err != nil {
		return Ineligible, fmt.Errorf("behavior: run script %s: %w", sp.name, err)
	}
	return sp.compiled.Get(scriptPriorityVar).Int(), nil
}

func zeroLike(v any) any {
	switch v.(type) {
	case int, int64:
		return 0
	case float64:
		return 0.0
	case bool:
		return false
	case string:
		return ""
	default:
		return nil
	}
}

// Scripted runs Task under a scripted priority. Inputs is called once per
// scoring and must not mutate anything.
type Scripted struct {
	Task
	Script *ScriptPriority
	Inputs func() map[string]any
}

func (s *Scripted) Name() string {
	if n, ok := s.Task.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return s.Script.Name()
}

func (s *Scripted) TryPriority() (int, error) {
	var values map[string]any
	if s.Inputs != nil {
		values = s.Inputs()
	}
	return s.Script.Eval(values)
}

func (s *Scripted) Priority() int {
	p, err := s.TryPriority()
	if err != nil {
		return Ineligible
	}
	return p
}
