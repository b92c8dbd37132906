package document

import (
	"fmt"
	"strings"

	"github.com/go-texest/texest/internal/expr"
	"github.com/go-texest/texest/internal/texerr"
	"github.com/go-texest/texest/internal/value"
)

// decodeCase builds one Case from its raw Value. Either "processes" is
// present (the structured multi-process form) or "command" is (the flat
// form, desugared to a single process named "main").
func decodeCase(v value.Value, idx int) (Case, error) {
	path := fmt.Sprintf("tests[%d]", idx)
	if v.Kind() != value.Map {
		return Case{}, texerr.Documentf("%s must be a map", path)
	}

	c := Case{}
	if nameVal, ok := v.MapGet("name"); ok {
		name, ok := nameVal.String()
		if !ok {
			return Case{}, texerr.Documentf("%s.name must be a string", path)
		}
		c.Name = name
	}
	if letVal, ok := v.MapGet("let"); ok {
		bindings, err := decodeLet(letVal, path)
		if err != nil {
			return Case{}, err
		}
		c.Let = bindings
	}

	procsVal, hasProcesses := v.MapGet("processes")
	_, hasCommand := v.MapGet("command")
	if hasProcesses && hasCommand {
		return Case{}, texerr.Documentf("%s must not set both processes and command", path)
	}
	if hasProcesses {
		return decodeStructuredCase(c, v, procsVal, path)
	}
	return decodeFlatCase(c, v, path)
}

func decodeLet(v value.Value, path string) ([]LetBinding, error) {
	if v.Kind() != value.Map {
		return nil, texerr.Documentf("%s.let must be a map", path)
	}
	keys := v.MapKeys()
	bindings := make([]LetBinding, 0, len(keys))
	for _, k := range keys {
		raw, _ := v.MapGet(k)
		n, err := expr.Parse(raw, fmt.Sprintf("%s.let.%s", path, k))
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, LetBinding{Name: k, Expr: n})
	}
	return bindings, nil
}

func decodeFlatCase(c Case, v value.Value, path string) (Case, error) {
	cmdVal, ok := v.MapGet("command")
	if !ok {
		return Case{}, texerr.Documentf("%s must have a command or processes", path)
	}
	argv, err := decodeArgv(cmdVal, path+".command")
	if err != nil {
		return Case{}, err
	}
	proc := ProcessSpec{Name: "main", Argv: argv, Mode: Foreground}

	if stdinVal, ok := v.MapGet("stdin"); ok {
		n, err := expr.Parse(stdinVal, path+".stdin")
		if err != nil {
			return Case{}, err
		}
		proc.Stdin = n
	}
	if b, ok := boolField(v, "tee_stdout"); ok {
		proc.TeeStdout = b
	}
	if b, ok := boolField(v, "tee_stderr"); ok {
		proc.TeeStderr = b
	}
	if workdirVal, ok := v.MapGet("workdir"); ok {
		n, err := expr.Parse(workdirVal, path+".workdir")
		if err != nil {
			return Case{}, err
		}
		proc.Workdir = n
	}
	if envVal, ok := v.MapGet("env"); ok {
		keys, envMap, err := decodeEnv(envVal, path+".env")
		if err != nil {
			return Case{}, err
		}
		proc.EnvKeys = keys
		proc.Env = envMap
	}
	if timeoutVal, ok := v.MapGet("timeout"); ok {
		n, err := expr.Parse(timeoutVal, path+".timeout")
		if err != nil {
			return Case{}, err
		}
		proc.Timeout = n
	}
	if expectVal, ok := v.MapGet("expect"); ok {
		exp, err := decodeExpectations(expectVal, path+".expect")
		if err != nil {
			return Case{}, err
		}
		proc.Expectations = exp
	}

	c.MainName = "main"
	c.ProcessOrder = []string{"main"}
	c.Processes = map[string]ProcessSpec{"main": proc}
	return c, nil
}

func decodeStructuredCase(c Case, v, procsVal value.Value, path string) (Case, error) {
	if procsVal.Kind() != value.Map {
		return Case{}, texerr.Documentf("%s.processes must be a map", path)
	}
	names := procsVal.MapKeys()
	if len(names) == 0 {
		return Case{}, texerr.Documentf("%s.processes must declare at least one process", path)
	}

	procs := make(map[string]ProcessSpec, len(names))
	mainName := ""
	for _, name := range names {
		procVal, _ := procsVal.MapGet(name)
		procPath := fmt.Sprintf("%s.processes.%s", path, name)
		proc, background, err := decodeProcessSpec(name, procVal, procPath)
		if err != nil {
			return Case{}, err
		}
		procs[name] = proc
		if !background {
			if mainName != "" {
				return Case{}, texerr.Documentf("%s: exactly one process may be foreground, got both %q and %q", path, mainName, name)
			}
			mainName = name
		}
	}
	if mainName == "" {
		return Case{}, texerr.Documentf("%s.processes must have exactly one foreground process", path)
	}

	if expectVal, ok := v.MapGet("expect"); ok {
		procsExpectVal, ok := expectVal.MapGet("processes")
		if !ok {
			return Case{}, texerr.Documentf("%s.expect must have a processes map in the structured form", path)
		}
		for _, name := range procsExpectVal.MapKeys() {
			ev, _ := procsExpectVal.MapGet(name)
			proc, ok := procs[name]
			if !ok {
				return Case{}, texerr.Documentf("%s.expect.processes.%s: no such process", path, name)
			}
			exp, err := decodeExpectations(ev, fmt.Sprintf("%s.expect.processes.%s", path, name))
			if err != nil {
				return Case{}, err
			}
			proc.Expectations = exp
			procs[name] = proc
		}
	}

	c.MainName = mainName
	c.ProcessOrder = names
	c.Processes = procs
	return c, nil
}

// decodeProcessSpec decodes one entry of a structured "processes" map,
// reporting whether it declared itself a background process.
func decodeProcessSpec(name string, v value.Value, path string) (ProcessSpec, bool, error) {
	if v.Kind() != value.Map {
		return ProcessSpec{}, false, texerr.Documentf("%s must be a map", path)
	}
	cmdVal, ok := v.MapGet("command")
	if !ok {
		return ProcessSpec{}, false, texerr.Documentf("%s must have a command", path)
	}
	argv, err := decodeArgv(cmdVal, path+".command")
	if err != nil {
		return ProcessSpec{}, false, err
	}
	proc := ProcessSpec{Name: name, Argv: argv}

	background := false
	if bv, ok := v.MapGet("background"); ok {
		b, ok := bv.Bool()
		if !ok {
			return ProcessSpec{}, false, texerr.Documentf("%s.background must be a bool", path)
		}
		background = b
	}

	if background {
		proc.Mode = Background
		if waitVal, ok := v.MapGet("wait"); ok {
			wc, err := decodeWaitCondition(waitVal, path+".wait")
			if err != nil {
				return ProcessSpec{}, false, err
			}
			proc.Wait = wc
		}
	} else {
		proc.Mode = Foreground
		if timeoutVal, ok := v.MapGet("timeout"); ok {
			n, err := expr.Parse(timeoutVal, path+".timeout")
			if err != nil {
				return ProcessSpec{}, false, err
			}
			proc.Timeout = n
		}
	}

	if stdinVal, ok := v.MapGet("stdin"); ok {
		n, err := expr.Parse(stdinVal, path+".stdin")
		if err != nil {
			return ProcessSpec{}, false, err
		}
		proc.Stdin = n
	}
	if b, ok := boolField(v, "tee_stdout"); ok {
		proc.TeeStdout = b
	}
	if b, ok := boolField(v, "tee_stderr"); ok {
		proc.TeeStderr = b
	}
	if workdirVal, ok := v.MapGet("workdir"); ok {
		n, err := expr.Parse(workdirVal, path+".workdir")
		if err != nil {
			return ProcessSpec{}, false, err
		}
		proc.Workdir = n
	}
	if envVal, ok := v.MapGet("env"); ok {
		keys, envMap, err := decodeEnv(envVal, path+".env")
		if err != nil {
			return ProcessSpec{}, false, err
		}
		proc.EnvKeys = keys
		proc.Env = envMap
	}

	return proc, background, nil
}

func boolField(v value.Value, key string) (bool, bool) {
	bv, ok := v.MapGet(key)
	if !ok {
		return false, false
	}
	b, _ := bv.Bool()
	return b, true
}

func decodeEnv(v value.Value, path string) ([]string, map[string]expr.Node, error) {
	if v.Kind() != value.Map {
		return nil, nil, texerr.Documentf("%s must be a map", path)
	}
	keys := v.MapKeys()
	m := make(map[string]expr.Node, len(keys))
	for _, k := range keys {
		raw, _ := v.MapGet(k)
		n, err := expr.Parse(raw, path+"."+k)
		if err != nil {
			return nil, nil, err
		}
		m[k] = n
	}
	return keys, m, nil
}

func decodeArgv(v value.Value, path string) ([]expr.Node, error) {
	items, ok := v.Seq()
	if !ok {
		return nil, texerr.Documentf("%s must be a sequence", path)
	}
	argv := make([]expr.Node, len(items))
	for i, item := range items {
		n, err := expr.Parse(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		argv[i] = n
	}
	return argv, nil
}

// decodeWaitCondition decodes the sole key of a "wait" block: one of
// sleep, http, stdout, stderr.
func decodeWaitCondition(v value.Value, path string) (*WaitCondition, error) {
	key, arg, ok := v.SoleEntry()
	if !ok {
		return nil, texerr.Documentf("%s must have exactly one of sleep, http, stdout, stderr", path)
	}

	switch key {
	case "sleep":
		n, err := expr.Parse(arg, path+".sleep")
		if err != nil {
			return nil, err
		}
		return &WaitCondition{Kind: WaitSleep, Duration: n}, nil

	case "http":
		urlVal, ok := arg.MapGet("url")
		if !ok {
			return nil, texerr.Documentf("%s.http must have a url", path)
		}
		urlNode, err := expr.Parse(urlVal, path+".http.url")
		if err != nil {
			return nil, err
		}
		wc := &WaitCondition{Kind: WaitHTTP, URL: urlNode}
		if tv, ok := arg.MapGet("timeout"); ok {
			n, err := expr.Parse(tv, path+".http.timeout")
			if err != nil {
				return nil, err
			}
			wc.Timeout = n
		}
		if iv, ok := arg.MapGet("interval"); ok {
			n, err := expr.Parse(iv, path+".http.interval")
			if err != nil {
				return nil, err
			}
			wc.Interval = n
		}
		return wc, nil

	case "stdout", "stderr":
		kind := WaitStdout
		if key == "stderr" {
			kind = WaitStderr
		}
		patternVal, ok := arg.MapGet("pattern")
		if !ok {
			return nil, texerr.Documentf("%s.%s must have a pattern", path, key)
		}
		patternNode, err := expr.Parse(patternVal, path+"."+key+".pattern")
		if err != nil {
			return nil, err
		}
		wc := &WaitCondition{Kind: kind, Pattern: patternNode}
		if tv, ok := arg.MapGet("timeout"); ok {
			n, err := expr.Parse(tv, path+"."+key+".timeout")
			if err != nil {
				return nil, err
			}
			wc.Timeout = n
		}
		if mv, ok := arg.MapGet("match_regex"); ok {
			b, ok := mv.Bool()
			if !ok {
				return nil, texerr.Documentf("%s.%s.match_regex must be a bool", path, key)
			}
			wc.MatchRegex = b
		}
		return wc, nil

	default:
		return nil, texerr.Documentf("%s: unknown wait condition %q", path, key)
	}
}

func decodeExpectations(v value.Value, path string) (*Expectations, error) {
	if v.Kind() != value.Map {
		return nil, texerr.Documentf("%s must be a map", path)
	}
	exp := &Expectations{Files: map[string]MatcherSpec{}}

	if sv, ok := v.MapGet("status"); ok {
		m, err := decodeMatcher(sv, path+".status")
		if err != nil {
			return nil, err
		}
		exp.Status = m
	}
	if sv, ok := v.MapGet("stdout"); ok {
		m, err := decodeMatcher(sv, path+".stdout")
		if err != nil {
			return nil, err
		}
		exp.Stdout = m
	}
	if sv, ok := v.MapGet("stderr"); ok {
		m, err := decodeMatcher(sv, path+".stderr")
		if err != nil {
			return nil, err
		}
		exp.Stderr = m
	}
	if fv, ok := v.MapGet("files"); ok {
		if fv.Kind() != value.Map {
			return nil, texerr.Documentf("%s.files must be a map", path)
		}
		for _, fname := range fv.MapKeys() {
			mv, _ := fv.MapGet(fname)
			m, err := decodeMatcher(mv, fmt.Sprintf("%s.files.%s", path, fname))
			if err != nil {
				return nil, err
			}
			exp.Files[fname] = *m
			exp.FileOrder = append(exp.FileOrder, fname)
		}
	}
	return exp, nil
}

// decodeMatcher reads a {name: param} or {"not."+name: param} map into a
// MatcherSpec, leaving param as an unevaluated Expression.
func decodeMatcher(v value.Value, path string) (*MatcherSpec, error) {
	key, arg, ok := v.SoleEntry()
	if !ok {
		return nil, texerr.Documentf("%s must have exactly one matcher key", path)
	}
	negated := false
	name := key
	if strings.HasPrefix(key, "not.") {
		negated = true
		name = strings.TrimPrefix(key, "not.")
	}
	n, err := expr.Parse(arg, path+"."+key)
	if err != nil {
		return nil, err
	}
	return &MatcherSpec{Name: name, Negated: negated, Param: n}, nil
}
