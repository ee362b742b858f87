package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

var i32Ptr = types.NewPointer(types.I32)

type runtimeFunc struct {
	name   string
	ret    types.Type
	params []types.Type
}

// runtimeFuncs are the functions of the SysY runtime library. They are declared in every module.
var runtimeFuncs = []*runtimeFunc{
	{name: "getint", ret: types.I32},
	{name: "getch", ret: types.I32},
	{name: "getarray", ret: types.I32, params: []types.Type{i32Ptr}},
	{name: "putint", ret: types.Void, params: []types.Type{types.I32}},
	{name: "putch", ret: types.Void, params: []types.Type{types.I32}},
	{name: "putarray", ret: types.Void, params: []types.Type{types.I32, i32Ptr}},
	{name: "starttime", ret: types.Void},
	{name: "stoptime", ret: types.Void},
}

func (g *Generator) declareRuntime() {
	for _, rf := range runtimeFuncs {
		params := make([]*ir.Param, len(rf.params))
		for i, t := range rf.params {
			params[i] = ir.NewParam("", t)
		}
		fn := g.mod.NewFunc(rf.name, rf.ret, params...)
		g.scopes.declare(&symbol{
			name:  rf.name,
			kind:  symbolKindFunc,
			typ:   rf.ret,
			value: fn,
		})
	}
}
