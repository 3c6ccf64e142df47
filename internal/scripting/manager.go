package scripting

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/darklord/internal/game/dice"
)

// globalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no boss VM is found.
const globalScope = "__global__"

//go:embed content
var defaultScripts embed.FS

// HookState is a snapshot of the encounter passed to Lua hooks.
type HookState struct {
	BossID        string
	BossName      string
	BossHPPercent int
	Phase         string
	Turn          int

	ActorHealth      int
	ActorMaxHealth   int
	ActorForcePoints int
	Darkness         int
	Control          int
	Rage             int
}

// vm is one sandboxed LState with the frame of the call in progress.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
	frame *frame
}

// frame collects what a single hook call produced.
type frame struct {
	state HookState
	lines []string
}

// Manager owns one sandboxed LState per boss id and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook. Calls into the same VM are
// serialized; different VMs run independently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadBoss creates a sandboxed VM for bossID, registers the encounter module,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: bossID must be non-empty; scriptDir must be a readable directory.
// Postcondition: the VM replaces any previous one for bossID.
func (m *Manager) LoadBoss(bossID, scriptDir string, instLimit int) error {
	return m.loadFS(bossID, os.DirFS(scriptDir), ".", instLimit)
}

// LoadGlobal creates the shared VM used as the CallHook fallback.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadFS(globalScope, os.DirFS(scriptDir), ".", instLimit)
}

// LoadDir loads every subdirectory of root as the scripts of the boss whose
// id is the subdirectory name. Lua files directly under root go to the
// global VM.
func (m *Manager) LoadDir(root string, instLimit int) error {
	return m.loadTree(os.DirFS(root), ".", instLimit)
}

// LoadDefaults loads the embedded hook scripts.
func (m *Manager) LoadDefaults(instLimit int) error {
	return m.loadTree(defaultScripts, "content", instLimit)
}

func (m *Manager) loadTree(fsys fs.FS, root string, instLimit int) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	hasGlobal := false
	for _, e := range entries {
		if e.IsDir() {
			if err := m.loadFS(e.Name(), fsys, path.Join(root, e.Name()), instLimit); err != nil {
				return err
			}
			continue
		}
		if path.Ext(e.Name()) == ".lua" {
			hasGlobal = true
		}
	}
	if hasGlobal {
		return m.loadFS(globalScope, fsys, root, instLimit)
	}
	return nil
}

func (m *Manager) loadFS(key string, fsys fs.FS, dir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	v := &vm{L: L, limit: instLimit}
	m.registerModules(v)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", dir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, p := range luaFiles {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: reading %q for %q: %w", p, key, err)
		}
		cancel := SetInstructionBudget(L, instLimit)
		err = L.DoString(string(src))
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", p, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.close()
	}
	m.vms[key] = v
	m.mu.Unlock()
	m.logger.Debug("scripting: VM loaded", zap.String("scope", key), zap.Int("files", len(luaFiles)))
	return nil
}

// CallHook calls the named Lua global function in bossID's VM with a table
// built from state. If the boss has no VM, the global VM is tried as a
// fallback. Lines logged through encounter.log and a string return value
// are returned in order.
//
// Returns (nil, nil) if the hook is not defined or no VM exists. Lua runtime
// errors are logged at Warn level and never propagated; lines logged before
// the error are still returned.
func (m *Manager) CallHook(bossID, hook string, state HookState) ([]string, error) {
	m.mu.RLock()
	v, ok := m.vms[bossID]
	if !ok {
		v = m.vms[globalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for boss",
			zap.String("boss", bossID),
			zap.String("hook", hook),
		)
		return nil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L == nil {
		return nil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return nil, nil
	}

	v.frame = &frame{state: state}
	defer func() { v.frame = nil }()
	cancel := SetInstructionBudget(v.L, v.limit)
	defer cancel()

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, stateTable(v.L, state)); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("boss", bossID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return v.frame.lines, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	if s, ok := ret.(lua.LString); ok && s != "" {
		v.frame.lines = append(v.frame.lines, string(s))
	}
	m.logger.Debug("scripting: hook called",
		zap.String("boss", bossID),
		zap.String("hook", hook),
		zap.Int("lines", len(v.frame.lines)),
	)
	return v.frame.lines, nil
}

// Scopes returns the ids of every loaded VM in sorted order.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Close releases every VM. CallHook afterwards behaves as if nothing was loaded.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.vms {
		v.close()
		delete(m.vms, k)
	}
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L != nil {
		v.L.Close()
		v.L = nil
	}
}
