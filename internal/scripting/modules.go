package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/darklord/internal/game/dice"
)

// registerModules registers the encounter Lua table into v's state:
//
//	encounter.log(msg)   appends a narrative line to the hook result
//	encounter.actor()    returns {health, max_health, force_points, darkness, control, rage}
//	encounter.boss()     returns {id, name, hp_percent, phase, turn}
//	encounter.roll(expr) rolls a dice expression and returns the total
//
// Precondition: v.L must be from NewSandboxedState.
func (m *Manager) registerModules(v *vm) {
	L := v.L
	mod := L.NewTable()
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if v.frame != nil {
			v.frame.lines = append(v.frame.lines, msg)
		}
		return 0
	}))
	L.SetField(mod, "actor", L.NewFunction(func(L *lua.LState) int {
		var s HookState
		if v.frame != nil {
			s = v.frame.state
		}
		L.Push(actorTable(L, s))
		return 1
	}))
	L.SetField(mod, "boss", L.NewFunction(func(L *lua.LState) int {
		var s HookState
		if v.frame != nil {
			s = v.frame.state
		}
		L.Push(bossTable(L, s))
		return 1
	}))
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr, err := dice.Parse(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		res := m.roller.Roll(expr, "lua hook")
		m.logger.Debug("scripting: lua roll", zap.String("expression", expr.Raw), zap.Int("total", res.Total()))
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))
	L.SetGlobal("encounter", mod)
}

func actorTable(L *lua.LState, s HookState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "health", lua.LNumber(s.ActorHealth))
	L.SetField(t, "max_health", lua.LNumber(s.ActorMaxHealth))
	L.SetField(t, "force_points", lua.LNumber(s.ActorForcePoints))
	L.SetField(t, "darkness", lua.LNumber(s.Darkness))
	L.SetField(t, "control", lua.LNumber(s.Control))
	L.SetField(t, "rage", lua.LNumber(s.Rage))
	return t
}

func bossTable(L *lua.LState, s HookState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(s.BossID))
	L.SetField(t, "name", lua.LString(s.BossName))
	L.SetField(t, "hp_percent", lua.LNumber(s.BossHPPercent))
	L.SetField(t, "phase", lua.LString(s.Phase))
	L.SetField(t, "turn", lua.LNumber(s.Turn))
	return t
}

// stateTable is the single argument passed to every hook.
func stateTable(L *lua.LState, s HookState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "actor", actorTable(L, s))
	L.SetField(t, "boss", bossTable(L, s))
	return t
}
