package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM configures a Lua VM to run in a restricted sandbox.
// Manifests are declarative and must not execute commands, touch the
// filesystem, or load external code.
//
// Safe modules like string, table, and math are preserved.
func sandboxLuaVM(L *lua.LState) {
	// os.execute, os.exit, os.getenv and friends
	L.SetGlobal("os", lua.LNil)

	// io.open, io.popen, io.read and friends
	L.SetGlobal("io", lua.LNil)

	// Module loading
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// debug could be used to escape the sandbox
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
